// Package render converts stored Markdown content to HTML for preview
// endpoints.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// HTML renders Markdown source to HTML.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
