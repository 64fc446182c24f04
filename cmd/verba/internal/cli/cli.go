// Package cli provides common configuration and utility functions for the verba CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/lerenn/verba/pkg/config"
	"github.com/lerenn/verba/pkg/dependencies"
	"github.com/lerenn/verba/pkg/logger"
	"github.com/lerenn/verba/pkg/metrics"
	"github.com/lerenn/verba/pkg/revision"
	"github.com/prometheus/client_golang/prometheus"
)

// TokenEnv is the environment variable holding the GitHub token.
const TokenEnv = "GITHUB_TOKEN"

var (
	// Verbose enables verbose output.
	Verbose bool
	// Stats prints the upstream request counters after the command.
	Stats bool
	// ConfigPath specifies a custom config file path.
	ConfigPath string
	// EnvFile specifies the dotenv file the token may be read from.
	EnvFile string
)

// GetConfigPath returns the config file path used by LoadConfig.
func GetConfigPath() string {
	if ConfigPath != "" {
		return ConfigPath
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".verba", "config.yaml")
}

// NewConfigManager creates a new Manager with the appropriate config path.
func NewConfigManager() config.Manager {
	return config.NewManager(GetConfigPath())
}

// LoadConfig loads the configuration and returns an error if not found.
func LoadConfig() (config.Config, error) {
	cfg, err := NewConfigManager().GetConfig()
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return cfg, nil
}

// LoadToken reads the token from the environment, after loading the
// dotenv file when it exists. Variables already set are not overridden.
func LoadToken() (string, error) {
	envFile := EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	token := os.Getenv(TokenEnv)
	if token == "" {
		return "", fmt.Errorf("%w: set %s or add it to %s", ErrTokenMissing, TokenEnv, envFile)
	}
	return token, nil
}

// NewLogger returns the logger matching the verbose flag.
func NewLogger() logger.Logger {
	if Verbose {
		return logger.NewVerboseLogger()
	}
	return logger.NewNoopLogger()
}

// Session holds what a command needs to talk to the repository.
type Session struct {
	Config   config.Config
	Manager  revision.Manager
	Registry *prometheus.Registry
}

// NewSession loads the configuration and the token and builds a revision manager.
func NewSession() (*Session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	token, err := LoadToken()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return nil, err
	}

	manager, err := revision.NewManager(revision.NewManagerParams{
		Config: cfg,
		Token:  token,
		Dependencies: dependencies.New().
			WithLogger(NewLogger()).
			WithMetrics(m),
	})
	if err != nil {
		return nil, err
	}

	return &Session{Config: cfg, Manager: manager, Registry: registry}, nil
}
