package testsupport

import (
	"context"
	"testing"

	"fetchd/internal/config"
	"fetchd/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewRequest inserts a pending request for tests using the provided store.
func NewRequest(t testing.TB, store *queue.Store, url, kind string) *queue.Request {
	t.Helper()

	req, err := store.NewRequest(context.Background(), url, kind)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}
