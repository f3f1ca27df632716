package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"quill/internal/config"
	"quill/internal/generate"
	"quill/internal/images"
	"quill/internal/logging"
	"quill/internal/notifications"
	"quill/internal/posts"
	"quill/internal/publish"
	"quill/internal/services/llm"
	"quill/internal/storage"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withStore(fn func(cfg *config.Config, store *posts.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := posts.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func (c *commandContext) newGenerator(cfg *config.Config, logger *slog.Logger) *generate.Generator {
	client := llm.NewClient(llm.Config{
		APIKey:              cfg.LLM.APIKey,
		BaseURL:             cfg.LLM.BaseURL,
		Model:               cfg.LLM.Model,
		TimeoutSeconds:      cfg.LLM.TimeoutSeconds,
		MaxRetries:          cfg.LLM.MaxRetries,
		RetryInitialDelayMS: cfg.LLM.RetryInitialDelayMS,
	})
	return generate.New(client, logger)
}

func (c *commandContext) newOrchestrator(cfg *config.Config, logger *slog.Logger) *publish.Orchestrator {
	gen := c.newGenerator(cfg, logger)
	pipeline := images.New(cfg, storage.NewClient(cfg), logger)
	return publish.New(cfg, gen, pipeline, logger)
}

func (c *commandContext) newNotifier(cfg *config.Config) notifications.Service {
	return notifications.NewService(cfg)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func cliLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}
