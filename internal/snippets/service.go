package snippets

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var (
	errMissingRepository = errors.New("snippets: repository is required")
	noOpLogger           = zap.NewNop()
)

const (
	opAddSnippet      = "snippets.add"
	opGetSnippet      = "snippets.get"
	opListSnippets    = "snippets.list"
	opUpdateSnippet   = "snippets.update"
	opDeleteSnippet   = "snippets.delete"
	opSearchSnippets  = "snippets.search"
	opToggleFavourite = "snippets.toggle_favourite"
	opModifyTags      = "snippets.modify_tags"
)

// ServiceConfig describes the dependencies required by the snippet service.
type ServiceConfig struct {
	Repository Repository
	Logger     *zap.Logger
}

// Service orchestrates validation and storage access for every adapter. All
// input normalization happens here so the CLI, the REST API, and the web page
// observe identical semantics.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repository == nil {
		return nil, errMissingRepository
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{repo: cfg.Repository, logger: logger}, nil
}

// Add validates the candidate fields and persists a new snippet.
func (s *Service) Add(ctx context.Context, title, code, description, language, tags string) (Snippet, error) {
	draft, err := NewDraft(title, code, description, language, tags)
	if err != nil {
		s.logError(opAddSnippet, err, zap.String("title", title))
		return Snippet{}, err
	}

	record, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.logError(opAddSnippet, err, zap.String("title", draft.Title))
		return Snippet{}, err
	}
	s.logger.Info("snippet added",
		zap.Int64("id", record.ID),
		zap.String("language", record.Language.String()))
	return record, nil
}

// Get returns a single snippet by identifier.
func (s *Service) Get(ctx context.Context, id int64) (Snippet, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logError(opGetSnippet, err, zap.Int64("id", id))
		return Snippet{}, err
	}
	return record, nil
}

// List returns snippets matching the filter in ascending identifier order.
// An empty language string means no language filter.
func (s *Service) List(ctx context.Context, language string, favorite *bool) ([]Snippet, error) {
	filter := ListFilter{Favorite: favorite}
	if strings.TrimSpace(language) != "" {
		parsed, err := ParseLanguage(language)
		if err != nil {
			s.logError(opListSnippets, err, zap.String("language", language))
			return nil, err
		}
		filter.Language = &parsed
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logError(opListSnippets, err)
		return nil, err
	}
	return records, nil
}

// Update applies a partial update after re-validating the supplied fields.
func (s *Service) Update(ctx context.Context, id int64, fields UpdateFields) (Snippet, error) {
	if err := fields.Validate(); err != nil {
		s.logError(opUpdateSnippet, err, zap.Int64("id", id))
		return Snippet{}, err
	}

	record, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		s.logError(opUpdateSnippet, err, zap.Int64("id", id))
		return Snippet{}, err
	}
	s.logger.Info("snippet updated", zap.Int64("id", id))
	return record, nil
}

// Delete removes a snippet permanently. A second delete of the same
// identifier fails with ErrSnippetNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logError(opDeleteSnippet, err, zap.Int64("id", id))
		return err
	}
	s.logger.Info("snippet deleted", zap.Int64("id", id))
	return nil
}

// Search trims the term, resolves the optional language filter, and performs
// a case-insensitive substring search across title, code, description, and
// tags. An empty term matches all snippets subject to the language filter.
func (s *Service) Search(ctx context.Context, term, language string) ([]Snippet, error) {
	trimmedTerm := strings.TrimSpace(term)

	var languageFilter *Language
	if strings.TrimSpace(language) != "" {
		parsed, err := ParseLanguage(language)
		if err != nil {
			s.logError(opSearchSnippets, err, zap.String("language", language))
			return nil, err
		}
		languageFilter = &parsed
	}

	records, err := s.repo.Search(ctx, trimmedTerm, languageFilter)
	if err != nil {
		s.logError(opSearchSnippets, err, zap.String("term", trimmedTerm))
		return nil, err
	}
	return records, nil
}

// ToggleFavourite flips the favourite flag and nothing else. The flip runs
// atomically in storage; UpdatedAt moves on each toggle.
func (s *Service) ToggleFavourite(ctx context.Context, id int64) (Snippet, error) {
	updated, err := s.repo.ToggleFavourite(ctx, id)
	if err != nil {
		s.logError(opToggleFavourite, err, zap.Int64("id", id))
		return Snippet{}, err
	}
	s.logger.Info("snippet favourite toggled",
		zap.Int64("id", id),
		zap.Bool("favorite", updated.Favorite))
	return updated, nil
}

// ModifyTags adds or removes labels on a snippet. Labels are trimmed and
// deduplicated; with sorted set, the stored list is sorted lexicographically.
func (s *Service) ModifyTags(ctx context.Context, id int64, labels []string, remove, sorted bool) (Snippet, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logError(opModifyTags, err, zap.Int64("id", id))
		return Snippet{}, err
	}

	existing := splitTags(record.Tags)
	for _, label := range labels {
		trimmed := strings.TrimSpace(label)
		if trimmed == "" {
			continue
		}
		if remove {
			if index := slices.Index(existing, trimmed); index >= 0 {
				existing = slices.Delete(existing, index, index+1)
			}
			continue
		}
		if !slices.Contains(existing, trimmed) {
			existing = append(existing, trimmed)
		}
	}
	if sorted {
		slices.Sort(existing)
	}

	merged := joinTags(existing)
	updated, err := s.repo.Update(ctx, id, UpdateFields{Tags: &merged})
	if err != nil {
		s.logError(opModifyTags, err, zap.Int64("id", id))
		return Snippet{}, err
	}
	s.logger.Info("snippet tags updated", zap.Int64("id", id), zap.String("tags", updated.Tags))
	return updated, nil
}

func (s *Service) logError(operation string, err error, fields ...zap.Field) {
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("snippet service error", attrs...)
}
