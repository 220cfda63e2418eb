// Package config loads runtime settings from the environment.
//
// Every variable is prefixed with FOODJOURNAL_, for example
// FOODJOURNAL_PORT or FOODJOURNAL_FATSECRET_CLIENT_ID. A .env file in the
// working directory is read first when present; real environment variables
// always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "FOODJOURNAL"

// Config holds everything the server and CLI need at startup.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	FatSecret FatSecret `envconfig:"FATSECRET"`
}

// FatSecret configures the nutrition search provider.
type FatSecret struct {
	ClientID     string        `envconfig:"CLIENT_ID"`
	ClientSecret string        `envconfig:"CLIENT_SECRET"`
	TokenURL     string        `envconfig:"TOKEN_URL" default:"https://oauth.fatsecret.com/connect/token"`
	APIURL       string        `envconfig:"API_URL" default:"https://platform.fatsecret.com/rest/server.api"`
	Scope        string        `envconfig:"SCOPE" default:"premier"`
	MaxResults   int           `envconfig:"MAX_RESULTS" default:"20"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}

	// Bare CLIENT_ID / CLIENT_SECRET are what the provider's own docs use.
	if cfg.FatSecret.ClientID == "" {
		cfg.FatSecret.ClientID = os.Getenv("CLIENT_ID")
	}
	if cfg.FatSecret.ClientSecret == "" {
		cfg.FatSecret.ClientSecret = os.Getenv("CLIENT_SECRET")
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.FatSecret.MaxResults < 1 || c.FatSecret.MaxResults > 50 {
		return fmt.Errorf("config: fatsecret max results %d must be between 1 and 50", c.FatSecret.MaxResults)
	}
	if c.FatSecret.Timeout <= 0 {
		return fmt.Errorf("config: fatsecret timeout must be positive")
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// HasCredentials reports whether both provider credentials are set.
func (f FatSecret) HasCredentials() bool {
	return f.ClientID != "" && f.ClientSecret != ""
}

// DefaultDBPath returns journal.db inside the user's config directory, or
// a path under the working directory when that cannot be determined.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join("data", "journal.db")
	}
	return filepath.Join(dir, "foodjournal", "journal.db")
}
