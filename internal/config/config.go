// Package config loads FixFirst configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all FixFirst configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage"`

	// AI gateway configuration
	AI AIConfig `yaml:"ai"`

	// Dashboard configuration
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig configures the local blob store.
type StorageConfig struct {
	// Path to the SQLite database holding the key-value blobs.
	DatabasePath string `yaml:"database_path"`
}

// AIConfig configures the Gemini gateway. An empty APIKey disables the
// gateway; image classification then falls back to the offline mock.
type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the terminal dashboard.
type UIConfig struct {
	Theme    string `yaml:"theme"`     // light, dark
	PageSize int    `yaml:"page_size"` // reports per table page
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "FixFirst",
		Version: "1.0.0",

		Storage: StorageConfig{
			DatabasePath: "fixfirst.db",
		},

		AI: AIConfig{
			Model:   "gemini-2.5-flash",
			Timeout: "60s",
		},

		UI: UIConfig{
			Theme:    "dark",
			PageSize: 10,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
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

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// Gemini API key (GEMINI_API_KEY takes precedence over GOOGLE_API_KEY)
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
	if model := os.Getenv("FIXFIRST_AI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if path := os.Getenv("FIXFIRST_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if theme := os.Getenv("FIXFIRST_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// Validate checks config values that would otherwise fail deep inside a
// subsystem.
func (c *Config) Validate() error {
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize)
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("ui.theme must be light or dark, got %q", c.UI.Theme)
	}
	return nil
}

// AITimeout returns the AI call timeout as a duration.
func (c *Config) AITimeout() time.Duration {
	d, err := time.ParseDuration(c.AI.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}
