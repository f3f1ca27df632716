package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quill/internal/generate"
	"quill/internal/posts"
	"quill/internal/server"
	"quill/internal/testsupport"
)

type stubTopics struct {
	topics []generate.GeneratedTopic
	err    error
}

func (s *stubTopics) GenerateTopics(context.Context, string, string, int) ([]generate.GeneratedTopic, error) {
	return s.topics, s.err
}

type stubPublisher struct {
	post *posts.Post
	err  error
}

func (s *stubPublisher) AutoPublish(context.Context, string) (*posts.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.post
	return &out, nil
}

func newTestServer(t *testing.T, token string, topics server.TopicGenerator, publisher server.Publisher) (*server.Server, *posts.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithToken(token))
	store := testsupport.MustOpenStore(t, cfg)
	if topics == nil {
		topics = &stubTopics{}
	}
	if publisher == nil {
		publisher = &stubPublisher{}
	}
	return server.New(cfg, store, nil, topics, publisher, nil, nil), store
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPostsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, "", nil, nil)
	handler := srv.Handler()

	post := map[string]any{
		"title":    "Budget Basics",
		"content":  "## Section\n\nKeep it simple.",
		"keywords": []string{"budget"},
		"status":   "draft",
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/posts", "", post)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert status %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("expected id in response, got %s", rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/posts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	var listed struct {
		Posts []posts.Post `json:"posts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Posts) != 1 || listed.Posts[0].Slug != "budget-basics" {
		t.Fatalf("unexpected list: %+v", listed.Posts)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/posts/"+created.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/posts/"+created.ID+"/html", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("html status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h2") {
		t.Fatalf("expected rendered markdown, got %q", rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/posts/"+created.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/posts/"+created.ID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestUpsertValidationError(t *testing.T) {
	srv, _ := newTestServer(t, "", nil, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/posts", "", map[string]any{"content": "no title"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, "sekrit", nil, nil)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/posts", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/posts", "wrong", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/posts", "sekrit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestGenerateTopicsEndpoint(t *testing.T) {
	topics := &stubTopics{topics: []generate.GeneratedTopic{{Topic: "Cash Flow"}}}
	srv, _ := newTestServer(t, "", topics, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/generate/topics", "", map[string]any{"niche": "finance"})
	if rec.Code != http.StatusOK {
		t.Fatalf("topics status %d: %s", rec.Code, rec.Body.String())
	}
	var decoded struct {
		Topics []generate.GeneratedTopic `json:"topics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode topics: %v", err)
	}
	if len(decoded.Topics) != 1 || decoded.Topics[0].Topic != "Cash Flow" {
		t.Fatalf("unexpected topics: %+v", decoded.Topics)
	}
}

func TestAutoPublishEndpointPersistsPost(t *testing.T) {
	publisher := &stubPublisher{post: &posts.Post{
		Title:   "Index Investing",
		Slug:    "index-investing",
		Content: "body",
		Status:  posts.StatusPublished,
	}}
	srv, store := newTestServer(t, "", nil, publisher)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/publish/auto", "", map[string]any{"niche": "finance"})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status %d: %s", rec.Code, rec.Body.String())
	}
	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil || decoded.ID == "" {
		t.Fatalf("expected id, got %s", rec.Body.String())
	}

	stored, err := store.GetByID(context.Background(), decoded.ID)
	if err != nil {
		t.Fatalf("post not persisted: %v", err)
	}
	if stored.Status != posts.StatusPublished {
		t.Fatalf("unexpected status: %q", stored.Status)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "", nil, nil)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"running":true`) {
		t.Fatalf("unexpected status body: %s", rec.Body.String())
	}
}
