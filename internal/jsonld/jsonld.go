// Package jsonld derives schema.org structured data fragments from a post.
package jsonld

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quill/internal/posts"
)

const schemaContext = "https://schema.org"

// minHowToSteps is the smallest step list worth emitting as a HowTo.
const minHowToSteps = 3

// Site describes the publishing site referenced by the fragments.
type Site struct {
	Name    string
	URL     string
	LogoURL string
}

// Fragment is one JSON-LD object.
type Fragment map[string]any

// Fragments derives the ordered fragment list for a post. BlogPosting,
// Organization, and BreadcrumbList are always present; FAQPage, HowTo, and
// Service are conditional on the post's flags.
func Fragments(p *posts.Post, site Site, now time.Time) []Fragment {
	frags := []Fragment{
		blogPosting(p, site, now),
		organization(site),
		breadcrumbs(p, site),
	}
	if len(p.AEOQuestions) > 0 {
		frags = append(frags, faqPage(p))
	}
	if p.IsHowTo && len(p.Steps) >= minHowToSteps {
		frags = append(frags, howTo(p))
	}
	if p.CommercialIntent {
		frags = append(frags, service(p, site))
	}
	return frags
}

// Markup serializes fragments into concatenated script tags for embedding
// in stored article bodies.
func Markup(frags []Fragment) string {
	var b strings.Builder
	for _, frag := range frags {
		encoded, err := json.Marshal(frag)
		if err != nil {
			continue
		}
		b.WriteString(`<script type="application/ld+json">`)
		b.Write(encoded)
		b.WriteString("</script>\n")
	}
	return b.String()
}

func blogPosting(p *posts.Post, site Site, now time.Time) Fragment {
	published := p.CreatedAt
	if published.IsZero() {
		published = now
	}
	frag := Fragment{
		"@context":      schemaContext,
		"@type":         "BlogPosting",
		"headline":      p.Title,
		"description":   p.Excerpt,
		"datePublished": published.UTC().Format(time.RFC3339),
		"dateModified":  now.UTC().Format(time.RFC3339),
		"author": map[string]any{
			"@type": "Organization",
			"name":  site.Name,
		},
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  site.Name,
			"logo": map[string]any{
				"@type": "ImageObject",
				"url":   site.LogoURL,
			},
		},
	}
	if p.CoverImage != "" {
		frag["image"] = p.CoverImage
	}
	if len(p.Keywords) > 0 {
		frag["keywords"] = strings.Join(p.Keywords, ", ")
	}
	if site.URL != "" {
		frag["mainEntityOfPage"] = postURL(p, site)
	}
	return frag
}

func organization(site Site) Fragment {
	return Fragment{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     site.Name,
		"url":      site.URL,
		"logo":     site.LogoURL,
	}
}

func breadcrumbs(p *posts.Post, site Site) Fragment {
	return Fragment{
		"@context": schemaContext,
		"@type":    "BreadcrumbList",
		"itemListElement": []any{
			map[string]any{
				"@type":    "ListItem",
				"position": 1,
				"name":     "Home",
				"item":     site.URL,
			},
			map[string]any{
				"@type":    "ListItem",
				"position": 2,
				"name":     "Blog",
				"item":     site.URL + "/blog",
			},
			map[string]any{
				"@type":    "ListItem",
				"position": 3,
				"name":     p.Title,
				"item":     postURL(p, site),
			},
		},
	}
}

func faqPage(p *posts.Post) Fragment {
	entities := make([]any, 0, len(p.AEOQuestions))
	for _, q := range p.AEOQuestions {
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  q.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  q.Answer,
			},
		})
	}
	return Fragment{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}

func howTo(p *posts.Post) Fragment {
	steps := make([]any, 0, len(p.Steps))
	for i, step := range p.Steps {
		steps = append(steps, map[string]any{
			"@type":    "HowToStep",
			"position": i + 1,
			"text":     step,
		})
	}
	return Fragment{
		"@context":    schemaContext,
		"@type":       "HowTo",
		"name":        p.Title,
		"description": p.Excerpt,
		"step":        steps,
	}
}

func service(p *posts.Post, site Site) Fragment {
	return Fragment{
		"@context":    schemaContext,
		"@type":       "Service",
		"name":        p.Title,
		"description": p.Excerpt,
		"provider": map[string]any{
			"@type": "Organization",
			"name":  site.Name,
			"url":   site.URL,
		},
		"areaServed":  p.GeoTargeting,
		"serviceType": p.Category,
	}
}

func postURL(p *posts.Post, site Site) string {
	return fmt.Sprintf("%s/blog/%s", site.URL, p.Slug)
}
