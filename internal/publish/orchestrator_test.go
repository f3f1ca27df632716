package publish_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"quill/internal/config"
	"quill/internal/generate"
	"quill/internal/images"
	"quill/internal/posts"
	"quill/internal/publish"
)

type stubGenerator struct {
	topics    []generate.GeneratedTopic
	topicsErr error
	post      *posts.Post
	postErr   error

	fullPostTopic string
	fullPostTone  string
}

func (s *stubGenerator) GenerateTopics(_ context.Context, niche, styleContext string, count int) ([]generate.GeneratedTopic, error) {
	return s.topics, s.topicsErr
}

func (s *stubGenerator) GenerateFullPost(_ context.Context, topic, tone, styleContext string) (*posts.Post, error) {
	s.fullPostTopic = topic
	s.fullPostTone = tone
	if s.postErr != nil {
		return nil, s.postErr
	}
	out := *s.post
	return &out, nil
}

type stubCovers struct {
	result images.Result
	err    error
}

func (s *stubCovers) AcquireCover(context.Context, string, string) (images.Result, error) {
	return s.result, s.err
}

func financeTopics() []generate.GeneratedTopic {
	return []generate.GeneratedTopic{
		{Topic: "Emergency Funds"},
		{Topic: "Index Investing"},
		{Topic: "Debt Snowball"},
	}
}

func commercialPost() *posts.Post {
	return &posts.Post{
		Title:            "Index Investing for Beginners",
		Excerpt:          "Start investing the boring way.",
		Content:          "Index funds spread risk across the market.",
		CommercialIntent: true,
		IsHowTo:          false,
		AEOQuestions: []posts.AEOQuestion{
			{Question: "Q1?", Answer: "A1."},
			{Question: "Q2?", Answer: "A2."},
			{Question: "Q3?", Answer: "A3."},
			{Question: "Q4?", Answer: "A4."},
		},
	}
}

func newOrchestrator(gen publish.ContentGenerator, covers publish.CoverResolver) *publish.Orchestrator {
	cfg := config.Default()
	cfg.Site.Name = "Example Insights"
	cfg.Site.URL = "https://example.com"
	cfg.Site.LogoURL = "https://example.com/logo.png"
	return publish.New(&cfg, gen, covers, nil,
		publish.WithPicker(func(n int) int { return 1 }),
		publish.WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }),
	)
}

func TestAutoPublishEndToEnd(t *testing.T) {
	gen := &stubGenerator{topics: financeTopics(), post: commercialPost()}
	covers := &stubCovers{result: images.Result{
		URL:     "https://files.example.com/cover.jpg",
		Outcome: images.OutcomeStored,
		Success: true,
	}}

	post, err := newOrchestrator(gen, covers).AutoPublish(context.Background(), "personal finance")
	if err != nil {
		t.Fatalf("auto publish: %v", err)
	}

	if gen.fullPostTopic != "Index Investing" {
		t.Fatalf("expected picked topic, got %q", gen.fullPostTopic)
	}
	if gen.fullPostTone != publish.DefaultTone {
		t.Fatalf("expected fixed tone, got %q", gen.fullPostTone)
	}
	if post.Slug != "index-investing-for-beginners" {
		t.Fatalf("unexpected slug: %q", post.Slug)
	}
	if post.Status != posts.StatusPublished {
		t.Fatalf("unexpected status: %q", post.Status)
	}
	if post.CoverImage != "https://files.example.com/cover.jpg" {
		t.Fatalf("unexpected cover: %q", post.CoverImage)
	}
	if post.Category != "Business Insights" || post.ReadTime != "5 min read" {
		t.Fatalf("defaults not applied: %q %q", post.Category, post.ReadTime)
	}
	if post.SEOScore != 85 || post.GeoTargeting != "Global" {
		t.Fatalf("defaults not applied: %d %q", post.SEOScore, post.GeoTargeting)
	}
	if len(post.Keywords) != 1 || post.Keywords[0] != "personal finance" {
		t.Fatalf("keyword default not applied: %v", post.Keywords)
	}

	if !strings.Contains(post.Content, `"@type":"Service"`) {
		t.Fatal("commercial post should embed a Service fragment")
	}
	if strings.Contains(post.Content, `"@type":"HowTo"`) {
		t.Fatal("non-how-to post must not embed a HowTo fragment")
	}
	if !strings.Contains(post.Content, `"@type":"BlogPosting"`) {
		t.Fatal("post should embed a BlogPosting fragment")
	}
}

func TestAutoPublishFailsWithoutTopics(t *testing.T) {
	gen := &stubGenerator{topics: nil}
	covers := &stubCovers{}

	_, err := newOrchestrator(gen, covers).AutoPublish(context.Background(), "personal finance")
	if err == nil || !strings.Contains(err.Error(), "no topics") {
		t.Fatalf("expected topic exhaustion error, got %v", err)
	}
}

func TestAutoPublishPropagatesTopicTransportError(t *testing.T) {
	gen := &stubGenerator{topicsErr: errors.New("provider down")}
	covers := &stubCovers{}

	_, err := newOrchestrator(gen, covers).AutoPublish(context.Background(), "personal finance")
	if err == nil || !strings.Contains(err.Error(), "provider down") {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestAutoPublishCoverErrorFallsBackToTimestampSeed(t *testing.T) {
	gen := &stubGenerator{topics: financeTopics(), post: commercialPost()}
	covers := &stubCovers{err: errors.New("pipeline exploded")}

	post, err := newOrchestrator(gen, covers).AutoPublish(context.Background(), "personal finance")
	if err != nil {
		t.Fatalf("cover failure must not abort publishing: %v", err)
	}
	if post.CoverImage != "https://picsum.photos/seed/1700000000/1200/630" {
		t.Fatalf("expected timestamp fallback cover, got %q", post.CoverImage)
	}
}

func TestAutoPublishAcceptsPipelineFallback(t *testing.T) {
	gen := &stubGenerator{topics: financeTopics(), post: commercialPost()}
	covers := &stubCovers{result: images.Result{
		URL:     "https://loremflickr.com/1200/630/index,investing",
		Outcome: images.OutcomeFallback,
		Success: true,
		Note:    "AI image generation failed after 3 attempts",
	}}

	post, err := newOrchestrator(gen, covers).AutoPublish(context.Background(), "personal finance")
	if err != nil {
		t.Fatalf("auto publish: %v", err)
	}
	if post.CoverImage != "https://loremflickr.com/1200/630/index,investing" {
		t.Fatalf("pipeline fallback should be kept, got %q", post.CoverImage)
	}
}
