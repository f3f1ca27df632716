// Package slugify derives URL slugs and storage filenames from post titles.
package slugify

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug converts a title into a lowercase hyphenated identifier. Accented
// characters fold to their ASCII base, runs of punctuation collapse to a
// single hyphen, and an empty result falls back to "post".
func Slug(title string) string {
	folded, _, err := transform.String(stripAccents, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "post"
	}
	return slug
}

// Filename builds a storage filename from a topic, a unix timestamp, and an
// extension such as ".jpg".
func Filename(topic string, unix int64, ext string) string {
	if !strings.HasPrefix(ext, ".") && ext != "" {
		ext = "." + ext
	}
	return fmt.Sprintf("%s-%d%s", Slug(topic), unix, ext)
}

// FirstWords returns up to n leading words of s.
func FirstWords(s string, n int) []string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return words
}
