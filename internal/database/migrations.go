package database

import (
	"errors"
	"strings"
	"time"

	"github.com/snipsterlab/snipster/internal/snippets"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationCanonicalizeLanguageCase = "2026-08-01_canonicalize_language_case"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationCanonicalizeLanguageCase, apply: canonicalizeLanguageCase},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// canonicalizeLanguageCase rewrites language values stored by older builds
// with arbitrary casing into the canonical enumeration form.
func canonicalizeLanguageCase(db *gorm.DB) error {
	for _, language := range snippets.Languages() {
		err := db.Model(&snippets.Snippet{}).
			Where("lower(language) = ? AND language <> ?", strings.ToLower(language.String()), language.String()).
			Update("language", language.String()).Error
		if err != nil {
			return err
		}
	}
	return nil
}
