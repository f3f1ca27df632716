package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/config"
	"quill/internal/posts"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish articles",
	}

	publishCmd.AddCommand(newPublishAutoCommand(ctx))

	return publishCmd
}

func newPublishAutoCommand(ctx *commandContext) *cobra.Command {
	var niche string

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Generate and publish an article end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *posts.Store) error {
				if strings.TrimSpace(niche) == "" {
					niche = cfg.Publish.DefaultNiche
				}

				logger := cliLogger(cfg)
				orchestrator := ctx.newOrchestrator(cfg, logger)
				notifier := ctx.newNotifier(cfg)

				post, err := orchestrator.AutoPublish(cmd.Context(), niche)
				if err != nil {
					_ = notifier.NotifyAutoPublishFailed(cmd.Context(), niche, err)
					return err
				}

				id, err := store.Upsert(cmd.Context(), post)
				if err != nil {
					return fmt.Errorf("persist post: %w", err)
				}
				cache := posts.NewCache(cfg)
				defer cache.Close()
				cache.Invalidate(cmd.Context())
				_ = notifier.NotifyPostPublished(cmd.Context(), post.Title, post.Slug)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Published %q\n", post.Title)
				fmt.Fprintf(out, "ID:     %s\n", id)
				fmt.Fprintf(out, "Slug:   %s\n", post.Slug)
				fmt.Fprintf(out, "Status: %s\n", post.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "", "Niche to publish for (defaults to configured niche)")
	return cmd
}
