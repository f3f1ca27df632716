package testsupport

import (
	"testing"

	"quill/internal/config"
	"quill/internal/posts"
)

// MustOpenStore opens a posts.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *posts.Store {
	t.Helper()

	store, err := posts.Open(cfg)
	if err != nil {
		t.Fatalf("posts.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
