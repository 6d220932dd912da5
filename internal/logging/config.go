package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum enabled level. Accepts zap level names plus "trace".
	Level string `koanf:"level"`

	// Format selects the stdout encoder: "json" or "console".
	Format string `koanf:"format"`

	// Output controls where log entries are written.
	Output OutputConfig `koanf:"output"`

	// Caller controls caller annotation on entries.
	Caller CallerConfig `koanf:"caller"`

	// Fields are constant fields attached to every entry.
	Fields map[string]string `koanf:"fields"`
}

// OutputConfig controls log sinks.
type OutputConfig struct {
	Stdout bool `koanf:"stdout"`
	OTEL   bool `koanf:"otel"`
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled"`
	Skip    int  `koanf:"skip"`
}

// NewDefaultConfig returns config with production-ready defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: OutputConfig{Stdout: true},
		Caller: CallerConfig{Enabled: true, Skip: 1},
		Fields: map[string]string{"service": "planqd"},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stdout && !c.Output.OTEL {
		return fmt.Errorf("at least one output must be enabled (stdout or otel)")
	}
	if _, err := LevelFromString(c.Level); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	return nil
}

// zapLevel returns the parsed level; Validate must have passed first.
func (c *Config) zapLevel() zapcore.Level {
	level, err := LevelFromString(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
