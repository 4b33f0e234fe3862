package snippets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var errMissingDatabaseHandle = errors.New("snippets: database handle is required")

type gormRepository struct {
	db    *gorm.DB
	clock func() time.Time
}

var _ Repository = (*gormRepository)(nil)

// NewGormRepository wraps a GORM handle in the Repository contract. A nil
// clock defaults to time.Now.
func NewGormRepository(db *gorm.DB, clock func() time.Time) (Repository, error) {
	if db == nil {
		return nil, errMissingDatabaseHandle
	}
	if clock == nil {
		clock = time.Now
	}
	return &gormRepository{db: db, clock: clock}, nil
}

func (r *gormRepository) Create(ctx context.Context, draft Draft) (Snippet, error) {
	now := r.clock().UTC()
	record := Snippet{
		Title:       draft.Title,
		Code:        draft.Code,
		Description: draft.Description,
		Language:    draft.Language,
		Tags:        draft.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&Snippet{}).
			Where("title = ? AND language = ?", draft.Title, draft.Language).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("snippets: checking duplicates: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("%w: title %q, language %s", ErrDuplicateSnippet, draft.Title, draft.Language)
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("snippets: creating snippet: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return Snippet{}, txErr
	}
	return record, nil
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (Snippet, error) {
	var record Snippet
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}
	if err != nil {
		return Snippet{}, fmt.Errorf("snippets: loading snippet %d: %w", id, err)
	}
	return record, nil
}

// List returns matching snippets in ascending identifier order.
func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]Snippet, error) {
	query := r.db.WithContext(ctx).Model(&Snippet{})
	if filter.Language != nil {
		query = query.Where("language = ?", *filter.Language)
	}
	if filter.Favorite != nil {
		query = query.Where("favorite = ?", *filter.Favorite)
	}

	var records []Snippet
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("snippets: listing snippets: %w", err)
	}
	return records, nil
}

func (r *gormRepository) Update(ctx context.Context, id int64, fields UpdateFields) (Snippet, error) {
	var record Snippet
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("snippets: loading snippet %d: %w", id, err)
		}

		applyFields(&record, fields)

		if fields.Title != nil || fields.Language != nil {
			var clashes int64
			err := tx.Model(&Snippet{}).
				Where("title = ? AND language = ? AND id <> ?", record.Title, record.Language, id).
				Count(&clashes).Error
			if err != nil {
				return fmt.Errorf("snippets: checking duplicates: %w", err)
			}
			if clashes > 0 {
				return fmt.Errorf("%w: title %q, language %s", ErrDuplicateSnippet, record.Title, record.Language)
			}
		}

		record.UpdatedAt = r.clock().UTC()
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("snippets: updating snippet %d: %w", id, err)
		}
		return nil
	})
	if txErr != nil {
		return Snippet{}, txErr
	}
	return record, nil
}

// ToggleFavourite flips the favourite flag inside a single transaction so
// concurrent toggles never collapse into one flip.
func (r *gormRepository) ToggleFavourite(ctx context.Context, id int64) (Snippet, error) {
	var record Snippet
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("snippets: loading snippet %d: %w", id, err)
		}

		record.Favorite = !record.Favorite
		record.UpdatedAt = r.clock().UTC()
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("snippets: toggling snippet %d: %w", id, err)
		}
		return nil
	})
	if txErr != nil {
		return Snippet{}, txErr
	}
	return record, nil
}

// Delete removes the record permanently. Deleting an absent identifier is an
// error, so a second delete of the same snippet fails.
func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Snippet{})
	if result.Error != nil {
		return fmt.Errorf("snippets: deleting snippet %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrSnippetNotFound, id)
	}
	return nil
}

// Search matches the term as a case-insensitive substring of title, code,
// description, or tags. An empty term matches everything, subject to the
// optional language filter. Results come back in ascending identifier order.
func (r *gormRepository) Search(ctx context.Context, term string, language *Language) ([]Snippet, error) {
	query := r.db.WithContext(ctx).Model(&Snippet{})
	if term != "" {
		pattern := "%" + escapeLikeTerm(strings.ToLower(term)) + "%"
		query = query.Where(
			`lower(title) LIKE ? ESCAPE '\' OR lower(code) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\' OR lower(tags) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern, pattern,
		)
	}
	if language != nil {
		query = query.Where("language = ?", *language)
	}

	var records []Snippet
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("snippets: searching snippets: %w", err)
	}
	return records, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikeTerm neutralizes LIKE metacharacters so the term matches as a
// literal substring.
func escapeLikeTerm(term string) string {
	return likeEscaper.Replace(term)
}

func applyFields(record *Snippet, fields UpdateFields) {
	if fields.Title != nil {
		record.Title = strings.TrimSpace(*fields.Title)
	}
	if fields.Code != nil {
		record.Code = *fields.Code
	}
	if fields.Description != nil {
		record.Description = strings.TrimSpace(*fields.Description)
	}
	if fields.Language != nil {
		record.Language = *fields.Language
	}
	if fields.Tags != nil {
		record.Tags = joinTags(splitTags(*fields.Tags))
	}
	if fields.Favorite != nil {
		record.Favorite = *fields.Favorite
	}
}
