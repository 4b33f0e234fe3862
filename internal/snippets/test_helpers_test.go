package snippets

import (
	"context"
	"sync"
	"testing"
	"time"
)

// steppedClock returns a strictly increasing clock so tests can observe
// UpdatedAt moving between mutations.
func steppedClock() func() time.Time {
	var mu sync.Mutex
	current := time.Unix(1700000000, 0).UTC()
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func mustCreate(t *testing.T, repo Repository, title, code, language, tags string) Snippet {
	t.Helper()
	draft, err := NewDraft(title, code, "", language, tags)
	if err != nil {
		t.Fatalf("unexpected draft error: %v", err)
	}
	record, err := repo.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	return record
}

func mustService(t *testing.T, repo Repository) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{Repository: repo})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return service
}
