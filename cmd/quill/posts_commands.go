package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"quill/internal/config"
	"quill/internal/posts"
)

func newPostsCommand(ctx *commandContext) *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect and manage stored posts",
	}

	postsCmd.AddCommand(newPostsListCommand(ctx))
	postsCmd.AddCommand(newPostsShowCommand(ctx))
	postsCmd.AddCommand(newPostsSaveCommand(ctx))
	postsCmd.AddCommand(newPostsDeleteCommand(ctx))
	postsCmd.AddCommand(newPostsStatsCommand(ctx))

	return postsCmd
}

func newPostsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *posts.Store) error {
				items, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No posts stored")
					return nil
				}
				if asJSON {
					return writeJSON(cmd, items)
				}

				colorize := shouldColorize(cmd.OutOrStdout())
				rows := make([][]string, 0, len(items))
				for _, post := range items {
					rows = append(rows, []string{
						post.ID,
						post.Title,
						statusLabel(post.Status, colorize),
						post.Category,
						post.CreatedAt.Format(time.DateOnly),
					})
				}
				table := renderTable(
					[]string{"ID", "Title", "Status", "Category", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit posts as JSON")
	return cmd
}

func newPostsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *posts.Store) error {
				post, err := store.GetByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd, post)
			})
		},
	}
}

func newPostsSaveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save <post.json>",
		Short: "Create or update a post from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *posts.Store) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read post file: %w", err)
				}
				var post posts.Post
				if err := json.Unmarshal(data, &post); err != nil {
					return fmt.Errorf("parse post file: %w", err)
				}
				id, err := store.Upsert(cmd.Context(), &post)
				if err != nil {
					return err
				}
				cache := posts.NewCache(cfg)
				defer cache.Close()
				cache.Invalidate(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Saved post %s\n", id)
				return nil
			})
		},
	}
}

func newPostsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *posts.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				cache := posts.NewCache(cfg)
				defer cache.Close()
				cache.Invalidate(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", args[0])
				return nil
			})
		},
	}
}

func newPostsStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored posts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *posts.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Draft", strconv.Itoa(stats.Draft)},
					{"Published", strconv.Itoa(stats.Published)},
					{"Scheduled", strconv.Itoa(stats.Scheduled)},
					{"Total", strconv.Itoa(stats.Total)},
				}
				table := renderTable(
					[]string{"Status", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
