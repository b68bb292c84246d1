// Package config loads and persists the library's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the draft engine configuration.
type Config struct {
	// Bot decision service configuration
	Bot BotConfig `toml:"bot"`

	// Format library configuration
	Formats FormatsConfig `toml:"formats"`

	// Draft archive configuration
	Storage StorageConfig `toml:"storage"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// BotConfig contains rating service settings.
type BotConfig struct {
	BaseURL           string  `toml:"base_url"`            // Rating service endpoint
	RequestTimeout    string  `toml:"request_timeout"`     // Per-request timeout (e.g., "10s")
	MaxRetries        int     `toml:"max_retries"`         // Retries before random fallback
	RequestsPerSecond float64 `toml:"requests_per_second"` // Outgoing request rate limit
}

// FormatsConfig contains format library settings.
type FormatsConfig struct {
	Dir   string `toml:"dir"`   // Directory of format descriptor files
	Watch bool   `toml:"watch"` // Reload descriptors on file changes
}

// StorageConfig contains draft archive settings.
type StorageConfig struct {
	Path string `toml:"path"` // SQLite database path, empty for default
}

// AppConfig contains general application settings.
type AppConfig struct {
	Seats     int  `toml:"seats"`      // Default seat count for new drafts
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			BaseURL:           "http://localhost:8500",
			RequestTimeout:    "10s",
			MaxRetries:        2,
			RequestsPerSecond: 4,
		},
		Formats: FormatsConfig{
			Dir:   "",
			Watch: true,
		},
		Storage: StorageConfig{
			Path: "",
		},
		App: AppConfig{
			Seats:     8,
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".cubedraft")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Bot.RequestTimeout); err != nil {
		return fmt.Errorf("invalid bot request timeout %q: %w", c.Bot.RequestTimeout, err)
	}

	if c.Bot.MaxRetries < 0 {
		return fmt.Errorf("bot max retries cannot be negative: %d", c.Bot.MaxRetries)
	}

	if c.Bot.RequestsPerSecond <= 0 {
		return fmt.Errorf("bot requests per second must be positive: %v", c.Bot.RequestsPerSecond)
	}

	if c.App.Seats < 2 {
		return fmt.Errorf("seat count must be at least 2: %d", c.App.Seats)
	}

	return nil
}

// GetBotRequestTimeout returns the bot request timeout as a duration.
func (c *Config) GetBotRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Bot.RequestTimeout)
}
