package render_test

import (
	"strings"
	"testing"

	"quill/internal/render"
)

func TestHTML(t *testing.T) {
	out, err := render.HTML("## Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<h2") {
		t.Fatalf("expected heading element, got %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Fatalf("expected bold span, got %q", out)
	}
}

func TestHTMLEmptyInput(t *testing.T) {
	out, err := render.HTML("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
