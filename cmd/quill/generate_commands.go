package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/generate"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate content with the configured model",
	}

	generateCmd.AddCommand(newGenerateTopicsCommand(ctx))
	generateCmd.AddCommand(newGeneratePostCommand(ctx))
	generateCmd.AddCommand(newGenerateTrainingCommand(ctx))

	return generateCmd
}

func newGenerateTopicsCommand(ctx *commandContext) *cobra.Command {
	var niche string
	var count int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Suggest article topics for a niche",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(niche) == "" {
				niche = cfg.Publish.DefaultNiche
			}

			gen := ctx.newGenerator(cfg, cliLogger(cfg))
			topics, err := gen.GenerateTopics(cmd.Context(), niche, cfg.Publish.StyleContext, count)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No topics generated")
				return nil
			}
			if asJSON {
				return writeJSON(cmd, topics)
			}

			rows := make([][]string, 0, len(topics))
			for i, topic := range topics {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					topic.Topic,
					topic.Category,
					topic.Relevance,
				})
			}
			table := renderTable(
				[]string{"#", "Topic", "Category", "Relevance"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "", "Niche to ideate for (defaults to configured niche)")
	cmd.Flags().IntVar(&count, "count", generate.DefaultTopicCount, "Number of topics to request")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit topics as JSON")
	return cmd
}

func newGeneratePostCommand(ctx *commandContext) *cobra.Command {
	var tone string

	cmd := &cobra.Command{
		Use:   "post <topic>",
		Short: "Write a full article for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			gen := ctx.newGenerator(cfg, cliLogger(cfg))
			post, err := gen.GenerateFullPost(cmd.Context(), args[0], tone, cfg.Publish.StyleContext)
			if err != nil {
				return err
			}
			return writeJSON(cmd, post)
		},
	}

	cmd.Flags().StringVar(&tone, "tone", "", "Writing tone for the article")
	return cmd
}

func newGenerateTrainingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "training <topic>",
		Short: "Build a training module outline for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			gen := ctx.newGenerator(cfg, cliLogger(cfg))
			module, err := gen.GenerateTrainingModule(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, module)
		},
	}
}
