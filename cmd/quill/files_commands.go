package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"quill/internal/storage"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Manage files on the remote storage API",
	}

	filesCmd.AddCommand(newFilesListCommand(ctx))
	filesCmd.AddCommand(newFilesDeleteCommand(ctx))

	return filesCmd
}

func newFilesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := storage.NewClient(cfg)
			files, err := client.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No files uploaded")
				return nil
			}

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				rows = append(rows, []string{
					file.Filename,
					strconv.FormatInt(file.Size, 10),
					time.Unix(file.MTime, 0).UTC().Format(time.DateTime),
					file.URL,
				})
			}
			table := renderTable(
				[]string{"Filename", "Bytes", "Modified", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func newFilesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <filename>",
		Short: "Delete an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := storage.NewClient(cfg)
			if err := client.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
