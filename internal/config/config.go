// Package config loads server configuration from an optional YAML file,
// an optional .env file and environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvLogLevel        = "GAMETHINKING_LOG_LEVEL"
	EnvLogFormat       = "GAMETHINKING_LOG_FORMAT"
	EnvDiagnostics     = "GAMETHINKING_DIAGNOSTICS"
	EnvColor           = "GAMETHINKING_COLOR"
	EnvJournalPath     = "GAMETHINKING_JOURNAL_PATH"
	EnvDisableThoughts = "DISABLE_THOUGHT_LOGGING"
)

// Config holds all server configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Journal     JournalConfig     `yaml:"journal"`
}

// ServerConfig configures the MCP server identity.
type ServerConfig struct {
	Name         string `yaml:"name"`
	Instructions bool   `yaml:"instructions"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DiagnosticsConfig configures the bordered thought display on stderr.
type DiagnosticsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Color   string `yaml:"color"` // auto, always, never
}

// JournalConfig configures the SQLite audit journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty: in-memory
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "gamethinking",
			Instructions: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Diagnostics: DiagnosticsConfig{
			Enabled: true,
			Color:   "auto",
		},
	}
}

// Load builds the configuration. An empty path skips the YAML file; a
// non-empty path must exist. A .env file in the working directory is
// loaded when present, then environment overrides are applied and the
// result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v, ok := envBool(EnvDiagnostics); ok {
		c.Diagnostics.Enabled = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		c.Diagnostics.Color = strings.ToLower(v)
	}
	if v := os.Getenv(EnvJournalPath); v != "" {
		c.Journal.Enabled = true
		c.Journal.Path = v
	}
	if v, ok := envBool(EnvDisableThoughts); ok && v {
		c.Diagnostics.Enabled = false
	}
}

func envBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("config: server.name is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid logging.level %q: must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: invalid logging.format %q: must be one of: console, json", c.Logging.Format)
	}
	switch c.Diagnostics.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: invalid diagnostics.color %q: must be one of: auto, always, never", c.Diagnostics.Color)
	}
	return nil
}

// Save writes the configuration as YAML, for `gamethinking config init`.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
