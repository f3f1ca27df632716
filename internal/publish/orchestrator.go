// Package publish composes generation, image acquisition, and structured
// data into the end-to-end auto-publish flow: pick a topic, write it,
// illustrate it, tag it, and hand back a post ready for persistence.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"quill/internal/config"
	"quill/internal/generate"
	"quill/internal/images"
	"quill/internal/jsonld"
	"quill/internal/logging"
	"quill/internal/posts"
	"quill/internal/services"
	"quill/internal/slugify"
)

// DefaultTone is the fixed voice used for auto-published articles.
const DefaultTone = "Professional & Engaging"

// Defaults applied to AI fields the provider left empty.
const (
	defaultCategory = "Business Insights"
	defaultReadTime = "5 min read"
	defaultGeo      = "Global"
	defaultSEOScore = 85
)

// ContentGenerator is the generation surface the orchestrator depends on.
type ContentGenerator interface {
	GenerateTopics(ctx context.Context, niche, styleContext string, count int) ([]generate.GeneratedTopic, error)
	GenerateFullPost(ctx context.Context, topic, tone, styleContext string) (*posts.Post, error)
}

// CoverResolver acquires a cover image for a topic.
type CoverResolver interface {
	AcquireCover(ctx context.Context, topic, prompt string) (images.Result, error)
}

// Orchestrator runs the auto-publish sequence.
type Orchestrator struct {
	gen          ContentGenerator
	covers       CoverResolver
	site         jsonld.Site
	styleContext string
	status       posts.Status
	logger       *slog.Logger
	now          func() time.Time
	pick         func(n int) int
}

// Option customizes the orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithPicker overrides topic selection (uniform random by default).
func WithPicker(pick func(n int) int) Option {
	return func(o *Orchestrator) {
		if pick != nil {
			o.pick = pick
		}
	}
}

// New constructs an orchestrator from configuration and collaborators.
func New(cfg *config.Config, gen ContentGenerator, covers CoverResolver, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:    gen,
		covers: covers,
		status: posts.StatusPublished,
		logger: logging.NewComponentLogger(logger, "publish"),
		now:    time.Now,
		pick:   rand.Intn,
	}
	if cfg != nil {
		o.site = jsonld.Site{
			Name:    cfg.Site.Name,
			URL:     cfg.Site.URL,
			LogoURL: cfg.Site.LogoURL,
		}
		o.styleContext = cfg.Publish.StyleContext
		if status := posts.Status(cfg.Publish.PublishStatus); posts.ValidStatus(status) {
			o.status = status
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AutoPublish runs the full flow for a niche and returns the assembled post.
// The caller persists the result; the orchestrator never writes storage
// itself. Only topic-step exhaustion aborts the flow; cover acquisition
// degrades through two fallback layers instead of failing.
func (o *Orchestrator) AutoPublish(ctx context.Context, niche string) (*posts.Post, error) {
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, services.Wrap(services.ErrValidation, "publish", "auto", "niche required", nil)
	}

	topics, err := o.gen.GenerateTopics(ctx, niche, o.styleContext, generate.DefaultTopicCount)
	if err != nil {
		return nil, fmt.Errorf("auto publish: %w", err)
	}
	if len(topics) == 0 {
		return nil, services.Wrap(services.ErrMalformed, "publish", "auto", "no topics generated for niche "+niche, nil)
	}

	topic := topics[o.pick(len(topics))]
	o.logger.Info("topic selected",
		logging.String("niche", niche),
		logging.String("topic", topic.Topic))

	post, err := o.gen.GenerateFullPost(ctx, topic.Topic, DefaultTone, o.styleContext)
	if err != nil {
		return nil, fmt.Errorf("auto publish: %w", err)
	}

	post.CoverImage = o.resolveCover(ctx, topic.Topic)
	o.applyDefaults(post, niche, topic)

	post.Slug = slugify.Slug(post.Title)
	post.Status = o.status
	post.CreatedAt = o.now().UTC()

	frags := jsonld.Fragments(post, o.site, o.now())
	post.Content = strings.TrimRight(post.Content, "\n") + "\n\n" + jsonld.Markup(frags)

	o.logger.Info("post assembled",
		logging.String("slug", post.Slug),
		logging.String("status", string(post.Status)),
		logging.Int("fragments", len(frags)))
	return post, nil
}

// resolveCover wraps the pipeline with a second, cruder fallback: any error
// or unsuccessful result degrades to a timestamp-seeded placeholder.
func (o *Orchestrator) resolveCover(ctx context.Context, topic string) string {
	result, err := o.covers.AcquireCover(ctx, topic, "")
	if err != nil || !result.Success || result.URL == "" {
		o.logger.Warn("cover acquisition failed, using timestamp fallback",
			logging.Error(err),
			logging.String("outcome", string(result.Outcome)))
		return images.TimestampFallbackURL(o.now())
	}
	if result.Outcome == images.OutcomeFallback {
		o.logger.Warn("using stock fallback cover", logging.String("note", result.Note))
	}
	return result.URL
}

func (o *Orchestrator) applyDefaults(post *posts.Post, niche string, topic generate.GeneratedTopic) {
	if strings.TrimSpace(post.Title) == "" {
		post.Title = topic.Topic
	}
	if strings.TrimSpace(post.Excerpt) == "" {
		post.Excerpt = topic.Excerpt
	}
	if strings.TrimSpace(post.Category) == "" {
		post.Category = defaultCategory
	}
	if strings.TrimSpace(post.ReadTime) == "" {
		post.ReadTime = defaultReadTime
	}
	if strings.TrimSpace(post.GeoTargeting) == "" {
		post.GeoTargeting = defaultGeo
	}
	if post.SEOScore == 0 {
		post.SEOScore = defaultSEOScore
	}
	if len(post.Keywords) == 0 {
		post.Keywords = []string{niche}
	}
	post.AEOQuestions = generate.RepairFAQ(post.Title, post.AEOQuestions)
}
