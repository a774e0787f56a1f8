package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/quantasplit/internal/log"
)

// Config represents the complete planner configuration.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Splitter configuration
	Splitter SplitterConfig `json:"splitter"`

	// EXPLAIN output configuration
	Explain ExplainConfig `json:"explain"`
}

// ExplainConfig controls how a split plan is printed.
type ExplainConfig struct {
	Format string `json:"format"` // "table", "markdown", "tree", "json", "yaml"
	Color  bool   `json:"color"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "warn",
		LogFormat: "text",
		Splitter:  DefaultSplitterConfig(),
		Explain: ExplainConfig{
			Format: "table",
			Color:  true,
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFlags merges command-line flags into the configuration.
func (c *Config) LoadFromFlags(logLevel, format string) {
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if format != "" {
		c.Explain.Format = format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
		// Valid
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}

	switch c.Explain.Format {
	case "table", "markdown", "tree", "json", "yaml":
		// Valid
	default:
		return fmt.Errorf("invalid explain format: %s", c.Explain.Format)
	}

	if err := c.Splitter.Validate(); err != nil {
		return fmt.Errorf("invalid splitter configuration: %w", err)
	}

	return nil
}

// ToLogConfig converts to log.Config.
func (c *Config) ToLogConfig() log.Config {
	return log.Config{
		Level:  c.LogLevel,
		Format: c.LogFormat,
	}
}
