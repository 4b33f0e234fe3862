// Package command wires the snipster CLI. Each subcommand maps 1:1 to a
// service operation and exits non-zero on any failure.
package command

import (
	"fmt"

	"github.com/snipsterlab/snipster/internal/config"
	"github.com/snipsterlab/snipster/internal/database"
	"github.com/snipsterlab/snipster/internal/logging"
	"github.com/snipsterlab/snipster/internal/snippets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// environment holds the dependencies commands resolve during
// PersistentPreRunE. The CLI opens the store directly; there is no HTTP hop.
type environment struct {
	service *snippets.Service
	logger  *zap.Logger
	cleanup func() error
}

// NewRootCommand builds the snipster command tree.
func NewRootCommand() *cobra.Command {
	env := &environment{}
	configViper := config.NewViper()

	rootCmd := &cobra.Command{
		Use:           "snipster",
		Short:         "Manage a personal library of code snippets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(configViper)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return env.teardown()
		},
	}

	rootCmd.PersistentFlags().String("db", configViper.GetString("database.path"), "Storage path (SQLite database or JSON store)")
	rootCmd.PersistentFlags().String("backend", configViper.GetString("repository.backend"), "Storage backend (sql, memory, json)")
	rootCmd.PersistentFlags().String("log-level", "error", "Log level (debug, info, warn, error)")

	bindFlag(rootCmd, configViper, "database.path", "db")
	bindFlag(rootCmd, configViper, "repository.backend", "backend")
	bindFlag(rootCmd, configViper, "log.level", "log-level")

	rootCmd.AddCommand(
		newAddCommand(env),
		newListCommand(env),
		newGetCommand(env),
		newSearchCommand(env),
		newFavouriteCommand(env),
		newTagsCommand(env),
		newUpdateCommand(env),
		newDeleteCommand(env),
	)

	return rootCmd
}

func bindFlag(cmd *cobra.Command, configViper *viper.Viper, key, flag string) {
	if err := configViper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func (e *environment) setup(configViper *viper.Viper) error {
	appConfig, err := config.Load(configViper)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	e.logger = logger
	e.cleanup = func() error { return nil }

	var repository snippets.Repository
	switch appConfig.RepositoryBackend {
	case config.BackendMemory:
		repository = snippets.NewMemoryRepository(nil)
	case config.BackendJSON:
		repository, err = snippets.NewJSONRepository(appConfig.DatabasePath, nil)
		if err != nil {
			return err
		}
	default:
		db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		e.cleanup = sqlDB.Close

		repository, err = snippets.NewGormRepository(db, nil)
		if err != nil {
			return err
		}
	}

	service, err := snippets.NewService(snippets.ServiceConfig{
		Repository: repository,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	e.service = service
	return nil
}

func (e *environment) teardown() error {
	if e.logger != nil {
		_ = e.logger.Sync()
	}
	if e.cleanup != nil {
		return e.cleanup()
	}
	return nil
}
