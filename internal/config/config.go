package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "SNIPSTER"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultDatabasePath = "snipster.db"
	defaultLogLevel     = "info"
	defaultBackend      = BackendSQL
)

// Storage backends selectable through repository.backend.
const (
	BackendSQL    = "sql"
	BackendMemory = "memory"
	BackendJSON   = "json"
)

// AppConfig captures runtime configuration shared by the API server and the CLI.
type AppConfig struct {
	HTTPAddress       string
	DatabasePath      string
	LogLevel          string
	RepositoryBackend string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("repository.backend", defaultBackend)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:       configViper.GetString("http.address"),
		DatabasePath:      configViper.GetString("database.path"),
		LogLevel:          configViper.GetString("log.level"),
		RepositoryBackend: strings.ToLower(strings.TrimSpace(configViper.GetString("repository.backend"))),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.RepositoryBackend {
	case BackendSQL, BackendJSON:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("database.path is required for the %s backend", c.RepositoryBackend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("repository.backend must be %q, %q, or %q, got %q", BackendSQL, BackendMemory, BackendJSON, c.RepositoryBackend)
	}
	return nil
}
