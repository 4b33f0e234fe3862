package snippets

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryRepository keeps snippets in a map. It backs the memory storage
// backend and most unit tests. Semantics match the SQLite implementation,
// including the duplicate check and the delete-twice error.
type memoryRepository struct {
	mu     sync.Mutex
	data   map[int64]Snippet
	nextID int64
	clock  func() time.Time
}

var _ Repository = (*memoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory Repository. A nil clock
// defaults to time.Now.
func NewMemoryRepository(clock func() time.Time) Repository {
	if clock == nil {
		clock = time.Now
	}
	return &memoryRepository{
		data:   make(map[int64]Snippet),
		nextID: 1,
		clock:  clock,
	}
}

func (r *memoryRepository) Create(_ context.Context, draft Draft) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.data {
		if existing.Title == draft.Title && existing.Language == draft.Language {
			return Snippet{}, fmt.Errorf("%w: title %q, language %s", ErrDuplicateSnippet, draft.Title, draft.Language)
		}
	}

	now := r.clock().UTC()
	record := Snippet{
		ID:          r.nextID,
		Title:       draft.Title,
		Code:        draft.Code,
		Description: draft.Description,
		Language:    draft.Language,
		Tags:        draft.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.data[record.ID] = record
	r.nextID++
	return record, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.data[id]
	if !ok {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}
	return record, nil
}

func (r *memoryRepository) List(_ context.Context, filter ListFilter) ([]Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]Snippet, 0, len(r.data))
	for _, record := range r.data {
		if filter.Language != nil && record.Language != *filter.Language {
			continue
		}
		if filter.Favorite != nil && record.Favorite != *filter.Favorite {
			continue
		}
		records = append(records, record)
	}
	sortByID(records)
	return records, nil
}

func (r *memoryRepository) Update(_ context.Context, id int64, fields UpdateFields) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.data[id]
	if !ok {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}

	applyFields(&record, fields)

	if fields.Title != nil || fields.Language != nil {
		for _, existing := range r.data {
			if existing.ID == id {
				continue
			}
			if existing.Title == record.Title && existing.Language == record.Language {
				return Snippet{}, fmt.Errorf("%w: title %q, language %s", ErrDuplicateSnippet, record.Title, record.Language)
			}
		}
	}

	record.UpdatedAt = r.clock().UTC()
	r.data[id] = record
	return record, nil
}

func (r *memoryRepository) ToggleFavourite(_ context.Context, id int64) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.data[id]
	if !ok {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}

	record.Favorite = !record.Favorite
	record.UpdatedAt = r.clock().UTC()
	r.data[id] = record
	return record, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}
	delete(r.data, id)
	return nil
}

func (r *memoryRepository) Search(_ context.Context, term string, language *Language) ([]Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(term)
	records := make([]Snippet, 0, len(r.data))
	for _, record := range r.data {
		if language != nil && record.Language != *language {
			continue
		}
		if needle != "" && !matchesTerm(record, needle) {
			continue
		}
		records = append(records, record)
	}
	sortByID(records)
	return records, nil
}

func matchesTerm(record Snippet, needle string) bool {
	haystacks := []string{record.Title, record.Code, record.Description, record.Tags}
	for _, haystack := range haystacks {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

func sortByID(records []Snippet) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}
