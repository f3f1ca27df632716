package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"quill/internal/services"
)

func TestConsoleHandlerPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	NewComponentLogger(logger, "publisher").Info("post stored", String("slug", "hello-world"))

	line := buf.String()
	if !strings.Contains(line, "INFO publisher: post stored") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "slug=hello-world") {
		t.Fatalf("expected slug attribute, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be a prefix, not an attribute: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("generated", String("title", "Remote Work Trends"))

	if !strings.Contains(buf.String(), `title="Remote Work Trends"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "WARN visible") {
		t.Fatalf("warn should pass: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestWithContextAttachesCorrelation(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithPostID(context.Background(), "abc-123")
	WithContext(ctx, logger).Info("working")

	if !strings.Contains(buf.String(), "post_id=abc-123") {
		t.Fatalf("expected post_id attribute, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
