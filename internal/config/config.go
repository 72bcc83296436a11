// Package config loads parley's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/alex/parley/internal/personality"
	"github.com/alex/parley/internal/session"
)

// Config is the top-level configuration.
type Config struct {
	Traits  map[string]float64 `yaml:"traits"`
	Mood    string             `yaml:"mood"`
	Seed    int64              `yaml:"seed"` // 0 seeds from the clock
	Store   StoreConfig        `yaml:"store"`
	Logging LoggingConfig      `yaml:"logging"`
	History HistoryConfig      `yaml:"history"`
}

// StoreConfig selects where conversation state is persisted.
type StoreConfig struct {
	Backend string `yaml:"backend"` // file, sqlite or memory
	Path    string `yaml:"path"`    // directory for file, database for sqlite
	Profile string `yaml:"profile"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
	File   string `yaml:"file"`   // empty logs to stderr
}

// HistoryConfig controls history display.
type HistoryConfig struct {
	Show int `yaml:"show"` // turns printed by /history without an argument
}

// DefaultDir is where parley keeps its files, ~/.parley when the home
// directory is known.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".parley"
	}
	return filepath.Join(home, ".parley")
}

// DefaultPath is the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Traits: personality.DefaultTraits(),
		Mood:   string(personality.DefaultMood),
		Store: StoreConfig{
			Backend: session.BackendFile,
			Profile: "default",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		History: HistoryConfig{
			Show: 10,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	for name, v := range personality.DefaultTraits() {
		if cfg.Traits == nil {
			cfg.Traits = make(map[string]float64)
		}
		if _, ok := cfg.Traits[name]; !ok {
			cfg.Traits[name] = v
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies PARLEY_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PARLEY_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("PARLEY_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("PARLEY_PROFILE"); v != "" {
		c.Store.Profile = v
	}
	if v := os.Getenv("PARLEY_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = seed
		}
	}
	if v := os.Getenv("PARLEY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate clamps trait weights, normalizes the mood and rejects unknown
// traits, moods, backends and log settings.
func (c *Config) Validate() error {
	known := personality.DefaultTraits()
	for name, v := range c.Traits {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unknown trait %q", name)
		}
		switch {
		case v < 0:
			c.Traits[name] = 0
		case v > 1:
			c.Traits[name] = 1
		}
	}

	m, ok := personality.ParseMood(c.Mood)
	if !ok {
		return fmt.Errorf("unknown mood %q", c.Mood)
	}
	c.Mood = string(m)

	switch c.Store.Backend {
	case session.BackendFile, session.BackendSQLite, session.BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Profile == "" {
		c.Store.Profile = "default"
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	if c.History.Show < 0 {
		c.History.Show = 0
	}
	return nil
}

// StorePath returns the configured store location, or the default one for
// the backend.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch c.Store.Backend {
	case session.BackendSQLite:
		return filepath.Join(DefaultDir(), "parley.db")
	case session.BackendFile:
		return filepath.Join(DefaultDir(), "profiles")
	default:
		return ""
	}
}
