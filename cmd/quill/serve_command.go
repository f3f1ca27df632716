package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"quill/internal/images"
	"quill/internal/logging"
	"quill/internal/posts"
	"quill/internal/publish"
	"quill/internal/server"
	"quill/internal/storage"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			lockPath := filepath.Join(cfg.Paths.DataDir, "quill.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return fmt.Errorf("another quill instance holds %s", lockPath)
			}
			defer lock.Unlock()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := posts.Open(cfg)
			if err != nil {
				return fmt.Errorf("open post store: %w", err)
			}
			defer store.Close()

			cache := posts.NewCache(cfg)
			defer cache.Close()

			gen := ctx.newGenerator(cfg, logger)
			pipeline := images.New(cfg, storage.NewClient(cfg), logger)
			orchestrator := publish.New(cfg, gen, pipeline, logger)
			notifier := ctx.newNotifier(cfg)

			srv := server.New(cfg, store, cache, gen, orchestrator, notifier, logger)
			if err := srv.Start(signalCtx); err != nil {
				return err
			}
			defer srv.Stop()

			<-signalCtx.Done()
			logger.Info("quill shutting down")
			return nil
		},
	}
}
