package snippets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var errMissingStorePath = errors.New("snippets: store path is required")

// jsonStore is the on-disk layout of the JSON backend. NextID grows
// monotonically so deleted identifiers are never reused.
type jsonStore struct {
	NextID   int64     `json:"next_id"`
	Snippets []Snippet `json:"snippets"`
}

func (s jsonStore) indexOf(id int64) int {
	for index, record := range s.Snippets {
		if record.ID == id {
			return index
		}
	}
	return -1
}

// jsonRepository persists snippets in a single JSON file. Every operation
// loads the file and mutations rewrite it whole, so separate processes
// sharing the path observe each other's writes. Semantics match the SQLite
// implementation, including the duplicate check and the delete-twice error.
type jsonRepository struct {
	mu    sync.Mutex
	path  string
	clock func() time.Time
}

var _ Repository = (*jsonRepository)(nil)

// NewJSONRepository returns a Repository backed by the JSON file at path.
// The file is created on first write. A nil clock defaults to time.Now.
func NewJSONRepository(path string, clock func() time.Time) (Repository, error) {
	if path == "" {
		return nil, errMissingStorePath
	}
	if clock == nil {
		clock = time.Now
	}
	return &jsonRepository{path: path, clock: clock}, nil
}

func (r *jsonRepository) load() (jsonStore, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return jsonStore{NextID: 1}, nil
	}
	if err != nil {
		return jsonStore{}, fmt.Errorf("snippets: reading store: %w", err)
	}

	var store jsonStore
	if err := json.Unmarshal(raw, &store); err != nil {
		return jsonStore{}, fmt.Errorf("snippets: decoding store: %w", err)
	}
	if store.NextID < 1 {
		store.NextID = 1
	}
	return store, nil
}

func (r *jsonRepository) save(store jsonStore) error {
	raw, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("snippets: encoding store: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("snippets: writing store: %w", err)
	}
	return nil
}

func (r *jsonRepository) Create(_ context.Context, draft Draft) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return Snippet{}, err
	}
	for _, existing := range store.Snippets {
		if existing.Title == draft.Title && existing.Language == draft.Language {
			return Snippet{}, fmt.Errorf("%w: title %q, language %s", ErrDuplicateSnippet, draft.Title, draft.Language)
		}
	}

	now := r.clock().UTC()
	record := Snippet{
		ID:          store.NextID,
		Title:       draft.Title,
		Code:        draft.Code,
		Description: draft.Description,
		Language:    draft.Language,
		Tags:        draft.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	store.Snippets = append(store.Snippets, record)
	store.NextID++
	if err := r.save(store); err != nil {
		return Snippet{}, err
	}
	return record, nil
}

func (r *jsonRepository) GetByID(_ context.Context, id int64) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return Snippet{}, err
	}
	index := store.indexOf(id)
	if index < 0 {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}
	return store.Snippets[index], nil
}

func (r *jsonRepository) List(_ context.Context, filter ListFilter) ([]Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return nil, err
	}
	records := make([]Snippet, 0, len(store.Snippets))
	for _, record := range store.Snippets {
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

func (r *jsonRepository) Update(_ context.Context, id int64, fields UpdateFields) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return Snippet{}, err
	}
	index := store.indexOf(id)
	if index < 0 {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}

	record := store.Snippets[index]
	applyFields(&record, fields)

	if fields.Title != nil || fields.Language != nil {
		for _, existing := range store.Snippets {
			if existing.ID == id {
				continue
			}
			if existing.Title == record.Title && existing.Language == record.Language {
				return Snippet{}, fmt.Errorf("%w: title %q, language %s", ErrDuplicateSnippet, record.Title, record.Language)
			}
		}
	}

	record.UpdatedAt = r.clock().UTC()
	store.Snippets[index] = record
	if err := r.save(store); err != nil {
		return Snippet{}, err
	}
	return record, nil
}

func (r *jsonRepository) ToggleFavourite(_ context.Context, id int64) (Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return Snippet{}, err
	}
	index := store.indexOf(id)
	if index < 0 {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}

	record := store.Snippets[index]
	record.Favorite = !record.Favorite
	record.UpdatedAt = r.clock().UTC()
	store.Snippets[index] = record
	if err := r.save(store); err != nil {
		return Snippet{}, err
	}
	return record, nil
}

func (r *jsonRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return err
	}
	index := store.indexOf(id)
	if index < 0 {
		return fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}
	store.Snippets = append(store.Snippets[:index], store.Snippets[index+1:]...)
	return r.save(store)
}

func (r *jsonRepository) Search(_ context.Context, term string, language *Language) ([]Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	records := make([]Snippet, 0, len(store.Snippets))
	for _, record := range store.Snippets {
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
