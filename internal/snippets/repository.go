package snippets

import "context"

// ListFilter narrows List results. Nil fields match every record.
type ListFilter struct {
	Language *Language
	Favorite *bool
}

// Repository is the storage contract for snippets. Implementations assign
// identifiers and timestamps on Create and refresh UpdatedAt on every
// mutation. ToggleFavourite flips the flag atomically. List and Search
// return records in ascending identifier order.
type Repository interface {
	Create(ctx context.Context, draft Draft) (Snippet, error)
	GetByID(ctx context.Context, id int64) (Snippet, error)
	List(ctx context.Context, filter ListFilter) ([]Snippet, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (Snippet, error)
	ToggleFavourite(ctx context.Context, id int64) (Snippet, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string, language *Language) ([]Snippet, error)
}
