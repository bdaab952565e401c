// Package common provides shared utilities for the BORTAL client
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the BORTAL terminal client
type Config struct {
	Environment string        `toml:"environment"`
	Gateway     GatewayConfig `toml:"gateway"`
	Session     SessionConfig `toml:"session"`
	Display     DisplayConfig `toml:"display"`
	Logging     LoggingConfig `toml:"logging"`
}

// GatewayConfig holds API gateway configuration
type GatewayConfig struct {
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"`
}

// GetTimeout parses and returns the request timeout duration
func (c *GatewayConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	Path string `toml:"path"` // session file; empty resolves under the user config dir
}

// ResolvePath returns the configured session file path, falling back to
// <user-config-dir>/bortal/session.json.
func (c *SessionConfig) ResolvePath() string {
	if c.Path != "" {
		return c.Path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "bortal", "session.json")
}

// DisplayConfig holds value formatting configuration
type DisplayConfig struct {
	Currency string `toml:"currency"` // ISO code used for money formatting, default "TRY"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"` // "console", "file"
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Gateway: GatewayConfig{
			BaseURL:   "http://127.0.0.1:8000/api",
			Timeout:   "10s",
			RateLimit: 5,
		},
		Display: DisplayConfig{
			Currency: "TRY",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "./logs/bortal.log",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BORTAL_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("BORTAL_API_BASE_URL"); url != "" {
		config.Gateway.BaseURL = url
	}

	if timeout := os.Getenv("BORTAL_API_TIMEOUT"); timeout != "" {
		config.Gateway.Timeout = timeout
	}

	if limit := os.Getenv("BORTAL_API_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			config.Gateway.RateLimit = n
		}
	}

	if path := os.Getenv("BORTAL_SESSION_PATH"); path != "" {
		config.Session.Path = path
	}

	if cur := os.Getenv("BORTAL_CURRENCY"); cur != "" {
		config.Display.Currency = strings.ToUpper(cur)
	}

	if level := os.Getenv("BORTAL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateCurrency ensures the display currency is a known ISO code, defaulting to TRY.
func validateCurrency(config *Config) {
	cur := strings.ToUpper(strings.TrimSpace(config.Display.Currency))
	if len(cur) != 3 {
		cur = "TRY"
	}
	config.Display.Currency = cur
}
