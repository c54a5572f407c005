// Package config loads naehbuch settings from an optional config.yaml with
// environment variable overrides. A .env file in the working directory is
// loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Backend names
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendJSON     = "json"
)

// Config holds all configuration for naehbuch.
// Environment variables override YAML values.
type Config struct {
	DataDir string `yaml:"data_dir" env:"NAEHBUCH_DATA_DIR" env-default:""`

	// Storage backend: sqlite, postgres or json
	Backend     string `yaml:"backend" env:"NAEHBUCH_BACKEND" env-default:"sqlite"`
	SQLitePath  string `yaml:"sqlite_path" env:"NAEHBUCH_SQLITE_PATH" env-default:""`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL" env-default:""`
	JSONPath    string `yaml:"json_path" env:"NAEHBUCH_JSON_PATH" env-default:""`

	Theme    string `yaml:"theme" env:"NAEHBUCH_THEME" env-default:"nord"`
	LogLevel string `yaml:"log_level" env:"NAEHBUCH_LOG_LEVEL" env-default:"info"`

	// Kept as text: a bool with env-default would override "false" from YAML
	Notify string `yaml:"notifications" env:"NAEHBUCH_NOTIFY"`
}

// DefaultDataDir returns ~/.local/share/naehbuch
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".naehbuch"
	}
	return filepath.Join(home, ".local", "share", "naehbuch")
}

// DefaultPath returns the config file location, overridable with NAEHBUCH_CONFIG
func DefaultPath() string {
	if p := os.Getenv("NAEHBUCH_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "naehbuch", "config.yaml")
}

// Load reads .env, then the config file at path if it exists, then the
// environment, and fills in derived paths
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "naehbuch.db")
	}
	if c.JSONPath == "" {
		c.JSONPath = filepath.Join(c.DataDir, "sewingProjects.json")
	}
	if c.Theme == "" {
		c.Theme = "nord"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate rejects unknown backends and a postgres backend without a URL
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendJSON:
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("backend %q requires DATABASE_URL", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, postgres or json)", c.Backend)
	}
	if c.Notify != "" {
		if _, err := strconv.ParseBool(c.Notify); err != nil {
			return fmt.Errorf("invalid notifications value %q", c.Notify)
		}
	}
	return nil
}

// NotificationsEnabled reports whether desktop notifications are on (default true)
func (c *Config) NotificationsEnabled() bool {
	on, err := strconv.ParseBool(strings.TrimSpace(c.Notify))
	if err != nil {
		return true
	}
	return on
}

// LogPath is where the file logger writes
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "naehbuch.log")
}

// PrefsPath is where the view preference is kept
func (c *Config) PrefsPath() string {
	return filepath.Join(c.DataDir, "prefs.yaml")
}

// LockPath is the single instance lock file
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "naehbuch.lock")
}
