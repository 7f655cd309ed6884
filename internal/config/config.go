package config

import (
	"fmt"
	"time"
)

// Config represents the full application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the chat completions client.
type APIConfig struct {
	Key          string `yaml:"key"`
	BaseURL      string `yaml:"baseURL"`
	Timeout      string `yaml:"timeout"`
	Model        string `yaml:"model"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// StoreConfig configures the exchange history store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"` // debug, info, error
	File          string `yaml:"file"`  // empty: stderr only
	MaxSizeMB     int    `yaml:"maxSizeMB"`
	MaxBackups    int    `yaml:"maxBackups"`
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("api.key is required (set it in the config file or via OAI_API_KEY)")
	}
	if _, err := c.API.ParseTimeout(); err != nil {
		return err
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when the store is enabled")
	}
	return nil
}

// ParseTimeout returns the configured request timeout, defaulting to
// 60 seconds when unset.
func (c APIConfig) ParseTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 60 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid api.timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}
