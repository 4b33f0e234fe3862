package snippets

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(ServiceConfig{}); err == nil {
		t.Fatalf("expected error for missing repository")
	}
}

func TestServiceAddRejectsInvalidDraftWithoutPersisting(t *testing.T) {
	repo := NewMemoryRepository(nil)
	service := mustService(t, repo)

	if _, err := service.Add(context.Background(), "", "print('x')", "", "Python", ""); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}

	records, err := repo.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected nothing persisted after validation failure, got %d records", len(records))
	}
}

func TestServiceAddParsesLanguageCaseInsensitively(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))

	record, err := service.Add(context.Background(), "Hello World", "console.log('hi')", "", "javascript", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Language != LanguageJavaScript {
		t.Fatalf("expected canonical JavaScript, got %s", record.Language)
	}
}

func TestServiceToggleFavouriteTwiceRestoresFlag(t *testing.T) {
	repo := NewMemoryRepository(steppedClock())
	service := mustService(t, repo)

	created, err := service.Add(context.Background(), "Hello World", "print('hi')", "", "Python", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Favorite {
		t.Fatalf("expected favourite to default to false")
	}

	once, err := service.ToggleFavourite(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !once.Favorite {
		t.Fatalf("expected favourite true after first toggle")
	}
	if !once.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected UpdatedAt to move on first toggle")
	}
	if once.Title != created.Title || once.Code != created.Code || once.Tags != created.Tags {
		t.Fatalf("toggle must not touch other fields: %#v", once)
	}

	twice, err := service.ToggleFavourite(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if twice.Favorite != created.Favorite {
		t.Fatalf("expected second toggle to restore original flag")
	}
	if !twice.UpdatedAt.After(once.UpdatedAt) {
		t.Fatalf("expected UpdatedAt to move on second toggle")
	}
}

func TestServiceConcurrentFavouriteTogglesAllApply(t *testing.T) {
	repo := NewMemoryRepository(nil)
	service := mustService(t, repo)

	created, err := service.Add(context.Background(), "Hello World", "print('hi')", "", "Python", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An even number of toggles must restore the original flag; a lost flip
	// would leave it set.
	const toggles = 16
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.ToggleFavourite(context.Background(), created.ID); err != nil {
				t.Errorf("unexpected toggle error: %v", err)
			}
		}()
	}
	wg.Wait()

	loaded, err := service.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Favorite {
		t.Fatalf("expected flag restored after %d toggles", toggles)
	}
}

func TestServiceToggleFavouriteUnknownIDFails(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))
	if _, err := service.ToggleFavourite(context.Background(), 7); !errors.Is(err, ErrSnippetNotFound) {
		t.Fatalf("expected ErrSnippetNotFound, got %v", err)
	}
}

func TestServiceSearchNormalizesTermAndLanguage(t *testing.T) {
	repo := NewMemoryRepository(nil)
	service := mustService(t, repo)

	if _, err := service.Add(context.Background(), "Quick Sort", "quicksort(data)", "", "Python", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := service.Search(context.Background(), "  QUICKSORT  ", "python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Quick Sort" {
		t.Fatalf("expected the Quick Sort snippet, got %#v", records)
	}
}

func TestServiceSearchRejectsUnknownLanguage(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))
	if _, err := service.Search(context.Background(), "x", "Rust"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestServiceListRejectsUnknownLanguage(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))
	if _, err := service.List(context.Background(), "COBOL", nil); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestServiceModifyTagsAddsAndSorts(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))

	created, err := service.Add(context.Background(), "Hello World", "print('hi')", "", "Python", "loops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := service.ModifyTags(context.Background(), created.ID, []string{"basics", " loops ", "zoo"}, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Tags != "basics, loops, zoo" {
		t.Fatalf("unexpected tags: %q", updated.Tags)
	}
}

func TestServiceModifyTagsRemoves(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))

	created, err := service.Add(context.Background(), "Hello World", "print('hi')", "", "Python", "basics, loops, zoo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := service.ModifyTags(context.Background(), created.ID, []string{"loops"}, true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Tags != "basics, zoo" {
		t.Fatalf("unexpected tags after removal: %q", updated.Tags)
	}
}

func TestServiceModifyTagsPreservesOrderWhenUnsorted(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))

	created, err := service.Add(context.Background(), "Hello World", "print('hi')", "", "Python", "zoo, basics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := service.ModifyTags(context.Background(), created.ID, []string{"apple"}, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Tags != "zoo, basics, apple" {
		t.Fatalf("expected insertion order preserved, got %q", updated.Tags)
	}
}

func TestServiceUpdateValidatesBeforeStorage(t *testing.T) {
	repo := NewMemoryRepository(nil)
	service := mustService(t, repo)

	created, err := service.Add(context.Background(), "Hello World", "print('hi')", "", "Python", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := ""
	if _, err := service.Update(context.Background(), created.ID, UpdateFields{Code: &empty}); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	unchanged, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unchanged.Code != created.Code {
		t.Fatalf("rejected update must not mutate the record")
	}
}

func TestServiceDeleteThenGetFails(t *testing.T) {
	service := mustService(t, NewMemoryRepository(nil))

	created, err := service.Add(context.Background(), "Hello World", "print('hi')", "", "Python", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Get(context.Background(), created.ID); !errors.Is(err, ErrSnippetNotFound) {
		t.Fatalf("expected ErrSnippetNotFound, got %v", err)
	}
	if err := service.Delete(context.Background(), created.ID); !errors.Is(err, ErrSnippetNotFound) {
		t.Fatalf("expected second delete to fail, got %v", err)
	}
}
