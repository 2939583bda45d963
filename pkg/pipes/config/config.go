package config

import (
	"fmt"
	"slices"
)

// Config holds the ambient settings of a pipeline run.
type Config struct {
	Name     string        `yaml:"name" mapstructure:"name"`
	Logging  LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing  TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics  MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Tolerate []string      `yaml:"tolerate" mapstructure:"tolerate"` // stage names whose errors are swallowed
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
}

// TracingConfig contains span settings for stage tracing.
type TracingConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Prefix  string `yaml:"prefix" mapstructure:"prefix"`
}

// MetricsConfig toggles stage counters and duration histograms.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// ApplyDefaults applies default values to configuration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "pipes"
	}
	c.Logging.ApplyDefaults()
	if c.Tracing.Prefix == "" {
		c.Tracing.Prefix = c.Name
	}
}

// Validate validates configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	return c.Logging.Validate()
}

// ApplyDefaults applies default values to logging configuration.
func (c *LoggingConfig) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
}

// Validate validates logging configuration.
func (c *LoggingConfig) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "disabled"}
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{"json", "console"}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}
