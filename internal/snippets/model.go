package snippets

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Language enumerates the programming languages a snippet may be stored under.
type Language string

const (
	LanguagePython     Language = "Python"
	LanguageJavaScript Language = "JavaScript"
	LanguageTypeScript Language = "TypeScript"
)

const minTitleLength = 3

var (
	// ErrInvalidTitle indicates that a snippet title is missing or too short.
	ErrInvalidTitle = errors.New("snippets: invalid title")
	// ErrInvalidCode indicates that a snippet body is empty.
	ErrInvalidCode = errors.New("snippets: invalid code")
	// ErrUnknownLanguage indicates that a language value is outside the enumeration.
	ErrUnknownLanguage = errors.New("snippets: unknown language")
	// ErrSnippetNotFound indicates that no snippet exists for the requested identifier.
	ErrSnippetNotFound = errors.New("snippets: snippet not found")
	// ErrDuplicateSnippet indicates that a snippet with the same title and language already exists.
	ErrDuplicateSnippet = errors.New("snippets: duplicate snippet")
)

// Languages returns the enumeration in canonical order.
func Languages() []Language {
	return []Language{LanguagePython, LanguageJavaScript, LanguageTypeScript}
}

// ParseLanguage matches raw input against the enumeration, ignoring case and
// surrounding whitespace, and returns the canonical form.
func ParseLanguage(rawInput string) (Language, error) {
	trimmed := strings.TrimSpace(rawInput)
	for _, language := range Languages() {
		if strings.EqualFold(trimmed, string(language)) {
			return language, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, rawInput)
}

// String returns the canonical language name.
func (l Language) String() string {
	return string(l)
}

// Snippet models a persisted code fragment. The (title, language) pair is
// unique across the table.
type Snippet struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;size:190;not null;uniqueIndex:idx_snippets_title_language,priority:1" json:"title"`
	Code        string    `gorm:"column:code;type:text;not null" json:"code"`
	Description string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Language    Language  `gorm:"column:language;size:32;not null;uniqueIndex:idx_snippets_title_language,priority:2" json:"language"`
	Tags        string    `gorm:"column:tags;type:text;not null;default:''" json:"tags"`
	Favorite    bool      `gorm:"column:favorite;not null;default:false" json:"is_favorite"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Snippet) TableName() string {
	return "snippets"
}

// Draft carries validated snippet fields that are not yet persisted.
type Draft struct {
	Title       string
	Code        string
	Description string
	Language    Language
	Tags        string
}

// NewDraft validates candidate fields and returns a Draft ready for storage.
// An empty language defaults to Python. Tags are normalized to a deduplicated
// comma-separated list.
func NewDraft(title, code, description, language, tags string) (Draft, error) {
	trimmedTitle := strings.TrimSpace(title)
	if len(trimmedTitle) < minTitleLength {
		return Draft{}, fmt.Errorf("%w: at least %d characters required", ErrInvalidTitle, minTitleLength)
	}
	if strings.TrimSpace(code) == "" {
		return Draft{}, fmt.Errorf("%w: empty", ErrInvalidCode)
	}

	parsedLanguage := LanguagePython
	if strings.TrimSpace(language) != "" {
		var err error
		parsedLanguage, err = ParseLanguage(language)
		if err != nil {
			return Draft{}, err
		}
	}

	return Draft{
		Title:       trimmedTitle,
		Code:        code,
		Description: strings.TrimSpace(description),
		Language:    parsedLanguage,
		Tags:        joinTags(splitTags(tags)),
	}, nil
}

// UpdateFields describes a partial update. Nil fields are left untouched.
type UpdateFields struct {
	Title       *string
	Code        *string
	Description *string
	Language    *Language
	Tags        *string
	Favorite    *bool
}

// Validate re-checks the creation invariants for every field present.
func (f UpdateFields) Validate() error {
	if f.Title != nil && len(strings.TrimSpace(*f.Title)) < minTitleLength {
		return fmt.Errorf("%w: at least %d characters required", ErrInvalidTitle, minTitleLength)
	}
	if f.Code != nil && strings.TrimSpace(*f.Code) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCode)
	}
	if f.Language != nil {
		if _, err := ParseLanguage(string(*f.Language)); err != nil {
			return err
		}
	}
	return nil
}

// IsValidationError reports whether err belongs to the validation class of the
// error taxonomy. Adapters map these to exit code 1 or HTTP 422.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrUnknownLanguage)
}

// splitTags breaks a comma-separated label list into trimmed non-empty parts.
func splitTags(rawTags string) []string {
	parts := strings.Split(rawTags, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if slices.Contains(labels, trimmed) {
			continue
		}
		labels = append(labels, trimmed)
	}
	return labels
}

func joinTags(labels []string) string {
	return strings.Join(labels, ", ")
}
