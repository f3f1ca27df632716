package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quill/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "[site]\nname = \"Example\"\n")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Server.Bind != "127.0.0.1:7781" {
		t.Fatalf("unexpected default bind: %s", cfg.Server.Bind)
	}
	if cfg.LLM.MaxRetries != 3 {
		t.Fatalf("unexpected default retries: %d", cfg.LLM.MaxRetries)
	}
	if cfg.Images.Width != 1200 || cfg.Images.Height != 630 {
		t.Fatalf("unexpected image defaults: %dx%d", cfg.Images.Width, cfg.Images.Height)
	}
	if cfg.Publish.PublishStatus != "published" {
		t.Fatalf("unexpected publish status: %s", cfg.Publish.PublishStatus)
	}
	if cfg.Site.Name != "Example" {
		t.Fatalf("file value lost: %s", cfg.Site.Name)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.LLM.BaseURL == "" {
		t.Fatal("expected default llm base url")
	}
}

func TestLoadExpandsHomePaths(t *testing.T) {
	path := writeConfig(t, "[paths]\ndata_dir = \"~/quill-data\"\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.HasPrefix(cfg.Paths.DataDir, "~") {
		t.Fatalf("tilde not expanded: %s", cfg.Paths.DataDir)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected absolute path, got %s", cfg.Paths.DataDir)
	}
}

func TestLoadRejectsBadPublishStatus(t *testing.T) {
	path := writeConfig(t, "[publish]\npublish_status = \"live\"\n")

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown publish status")
	}
}

func TestLoadRejectsNegativeDimensions(t *testing.T) {
	path := writeConfig(t, "[images]\nwidth = -10\n")

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for negative width")
	}
}

func TestEnvironmentSuppliesSecrets(t *testing.T) {
	t.Setenv("QUILL_LLM_API_KEY", "sk-env")
	t.Setenv("QUILL_STORAGE_API_URL", "https://files.example.com/api")
	path := writeConfig(t, "")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Fatalf("expected env api key, got %q", cfg.LLM.APIKey)
	}
	if cfg.Storage.APIURL != "https://files.example.com/api" {
		t.Fatalf("expected env storage url, got %q", cfg.Storage.APIURL)
	}
}

func TestFileValueWinsOverEnvironment(t *testing.T) {
	t.Setenv("QUILL_LLM_API_KEY", "sk-env")
	path := writeConfig(t, "[llm]\napi_key = \"sk-file\"\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-file" {
		t.Fatalf("expected file api key to win, got %q", cfg.LLM.APIKey)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	written, err := config.WriteSample(path)
	if err != nil {
		t.Fatalf("write sample: %v", err)
	}
	body, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(body), "[llm]") {
		t.Fatal("sample config missing llm section")
	}

	if _, err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when file already exists")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s", dir)
		}
	}
}
