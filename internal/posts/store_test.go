package posts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quill/internal/posts"
	"quill/internal/services"
	"quill/internal/testsupport"
)

func newStore(t *testing.T) *posts.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, testsupport.NewConfig(t))
}

func samplePost() *posts.Post {
	return &posts.Post{
		Title:    "Remote Work Trends for 2026",
		Excerpt:  "Where distributed teams are heading.",
		Content:  "## Overview\n\nRemote work keeps evolving.",
		Keywords: []string{"remote work", "productivity"},
		Category: "Business Insights",
		Status:   posts.StatusDraft,
		ReadTime: "5 min read",
		SEOScore: 85,
		AEOQuestions: []posts.AEOQuestion{
			{Question: "Is remote work here to stay?", Answer: "Yes, in hybrid form."},
		},
		IsHowTo: true,
		Steps:   []string{"Audit tooling", "Set norms", "Measure output"},
	}
}

func TestUpsertAssignsIDAndSlug(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	post := samplePost()
	id, err := store.Upsert(ctx, post)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	stored, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Slug != "remote-work-trends-for-2026" {
		t.Fatalf("unexpected slug: %q", stored.Slug)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
	if len(stored.Keywords) != 2 || stored.Keywords[0] != "remote work" {
		t.Fatalf("keywords round trip failed: %v", stored.Keywords)
	}
	if len(stored.AEOQuestions) != 1 || stored.AEOQuestions[0].Answer != "Yes, in hybrid form." {
		t.Fatalf("questions round trip failed: %v", stored.AEOQuestions)
	}
	if !stored.IsHowTo || len(stored.Steps) != 3 {
		t.Fatalf("steps round trip failed: %v", stored.Steps)
	}
}

func TestUpsertReplacesByID(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	post := samplePost()
	id, err := store.Upsert(ctx, post)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	post.Title = "Remote Work Trends, Revised"
	post.Status = posts.StatusPublished
	if _, err := store.Upsert(ctx, post); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 post after replace, got %d", len(all))
	}
	if all[0].ID != id || all[0].Status != posts.StatusPublished {
		t.Fatalf("replace did not stick: %+v", all[0])
	}
}

func TestUpsertRejectsPastScheduledDate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	post := samplePost()
	post.Status = posts.StatusScheduled
	past := time.Now().Add(-time.Hour)
	post.ScheduledDate = &past

	_, err := store.Upsert(ctx, post)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	future := time.Now().Add(24 * time.Hour)
	post.ScheduledDate = &future
	if _, err := store.Upsert(ctx, post); err != nil {
		t.Fatalf("future scheduled date should pass: %v", err)
	}
}

func TestUpsertRejectsMissingTitle(t *testing.T) {
	store := newStore(t)

	_, err := store.Upsert(context.Background(), &posts.Post{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first := samplePost()
	first.Title = "Older"
	first.CreatedAt = time.Now().Add(-2 * time.Hour).UTC()
	if _, err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert older: %v", err)
	}

	second := samplePost()
	second.Title = "Newer"
	if _, err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("upsert newer: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(all))
	}
	if all[0].Title != "Newer" {
		t.Fatalf("expected newest first, got %q", all[0].Title)
	}
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Upsert(ctx, samplePost())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, id); !errors.Is(err, posts.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, posts.ErrNotFound) {
		t.Fatalf("expected not found for second delete, got %v", err)
	}
}

func TestStats(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	draft := samplePost()
	if _, err := store.Upsert(ctx, draft); err != nil {
		t.Fatalf("upsert draft: %v", err)
	}
	published := samplePost()
	published.Title = "Published One"
	published.Status = posts.StatusPublished
	if _, err := store.Upsert(ctx, published); err != nil {
		t.Fatalf("upsert published: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Draft != 1 || stats.Published != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *posts.Cache
	ctx := context.Background()

	if _, ok := cache.GetList(ctx); ok {
		t.Fatal("nil cache must always miss")
	}
	cache.SetList(ctx, nil)
	cache.Invalidate(ctx)
	if err := cache.Close(); err != nil {
		t.Fatalf("nil cache close: %v", err)
	}
}
