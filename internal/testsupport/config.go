package testsupport

import (
	"path/filepath"
	"testing"

	"quill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Cache.RedisAddr = ""

	cfg := &cfgVal
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithToken sets the API bearer token on the test config.
func WithToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.Token = token
	}
}

// WithLLMKey sets the generation API key on the test config.
func WithLLMKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.APIKey = key
	}
}
