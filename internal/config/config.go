// Package config provides configuration management for the shellpilot CLI.
// It handles loading and parsing the YAML configuration file and provides
// structured access to the completion request settings, falling back to
// sensible defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// appDirName is the fixed subdirectory under the user config home that
	// holds both config.yaml and auth.json.
	appDirName = "shellpilot"

	configFileName = "config.yaml"

	defaultModel          = "gpt-4o"
	defaultTemperature    = 0.2
	defaultMaxTokens      = 180
	defaultTimeoutSeconds = 30
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Model is the completion model requested from the Copilot API.
	Model string `yaml:"model" json:"model"`

	// Temperature is the sampling temperature for completion requests.
	Temperature float64 `yaml:"temperature" json:"temperature"`

	// MaxTokens caps the completion length. Proposals are small JSON objects,
	// so the default is deliberately tight; the streaming decoder recovers
	// from the truncation this can cause.
	MaxTokens int `yaml:"max-tokens" json:"max-tokens"`

	// RequestTimeoutSeconds bounds the whole completion request.
	RequestTimeoutSeconds int `yaml:"request-timeout-seconds" json:"request-timeout-seconds"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Model:                 defaultModel,
		Temperature:           defaultTemperature,
		MaxTokens:             defaultMaxTokens,
		RequestTimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Dir returns the per-user configuration directory for shellpilot,
// honoring XDG_CONFIG_HOME with a ~/.config fallback. The path is stable
// across invocations so the login flow and token exchange see the same
// credential file.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", appDirName)
}

// Load reads the configuration from the default location. A missing file is
// not an error and yields the defaults; a malformed file is surfaced so the
// user can fix it rather than silently running with defaults.
func Load() (*Config, error) {
	return LoadFromFile(filepath.Join(Dir(), configFileName))
}

// LoadFromFile reads the configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Temperature <= 0 {
		c.Temperature = defaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultTimeoutSeconds
	}
}

// RequestTimeout returns the completion request deadline as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
