package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"quill/internal/services"
	"quill/internal/services/llm"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*llm.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := llm.NewClient(llm.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
	}, llm.WithHTTPClient(server.Client()), llm.WithSleeper(noSleep))
	return client, server
}

func completionBody(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestCompleteReturnsContent(t *testing.T) {
	var seen atomic.Value
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		seen.Store(req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`{"ok":true}`)))
	})

	out, err := client.Complete(context.Background(), llm.Request{
		Instruction: "generate something",
		Schema:      llm.Schema{Name: "probe", Definition: map[string]any{"type": "object"}},
		Temperature: 0.4,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("unexpected content: %q", out)
	}

	req, _ := seen.Load().(map[string]any)
	if req == nil {
		t.Fatal("request body not captured")
	}
	if req["model"] != "test-model" {
		t.Fatalf("unexpected model: %v", req["model"])
	}
	format, _ := req["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", req["response_format"])
	}
	messages, _ := req["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
	system, _ := messages[0].(map[string]any)
	if !strings.Contains(system["content"].(string), "probe") {
		t.Fatal("schema name missing from system prompt")
	}
}

func TestCompleteRetriesOverload(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(completionBody("recovered")))
	})

	out, err := client.Complete(context.Background(), llm.Request{Instruction: "go"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "recovered" {
		t.Fatalf("unexpected content: %q", out)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestCompleteDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := client.Complete(context.Background(), llm.Request{Instruction: "go"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls.Load())
	}
}

func TestCompleteEmptyContentIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	out, err := client.Complete(context.Background(), llm.Request{Instruction: "go"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty content, got %q", out)
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := llm.NewClient(llm.Config{BaseURL: "http://localhost:1"}, llm.WithSleeper(noSleep))

	_, err := client.Complete(context.Background(), llm.Request{Instruction: "go"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if client.Configured() {
		t.Fatal("client without key must not report configured")
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	var direct payload
	if err := llm.DecodeJSON(`{"title":"a"}`, &direct); err != nil || direct.Title != "a" {
		t.Fatalf("direct decode failed: %v", err)
	}

	var fenced payload
	if err := llm.DecodeJSON("```json\n{\"title\":\"b\"}\n```", &fenced); err != nil || fenced.Title != "b" {
		t.Fatalf("fenced decode failed: %v", err)
	}

	var embedded payload
	if err := llm.DecodeJSON("Here you go: {\"title\":\"c\"} hope that helps", &embedded); err != nil || embedded.Title != "c" {
		t.Fatalf("embedded decode failed: %v", err)
	}

	var bad payload
	if err := llm.DecodeJSON("no json here", &bad); err == nil {
		t.Fatal("expected decode error")
	}
	if err := llm.DecodeJSON("", &bad); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
