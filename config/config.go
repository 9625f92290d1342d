// Package config loads server configuration from an optional YAML file with
// environment variable overrides. Precedence: defaults < file < environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ModelConfig selects and tunes the LLM provider.
type ModelConfig struct {
	// Provider is "openai", "anthropic" or "mock".
	Provider string `yaml:"provider"`
	// Name is the provider-specific model identifier. Empty uses the
	// adapter's default.
	Name string `yaml:"name"`
	// Temperature for completions.
	Temperature float64 `yaml:"temperature"`
}

// Config is the full server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// AgentsDir holds agent JSON snapshots and per-agent tool folders.
	AgentsDir string `yaml:"agents_dir"`
	// ToolsDir holds shared tool manifests.
	ToolsDir string `yaml:"tools_dir"`
	// StaticDir, when set, is served at the web root.
	StaticDir string `yaml:"static_dir"`
	// HistoryLimit bounds retained conversation turns.
	HistoryLimit int `yaml:"history_limit"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is "json" or "text".
	LogFormat string `yaml:"log_format"`

	Model ModelConfig `yaml:"model"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Addr:         ":8080",
		AgentsDir:    "agents",
		ToolsDir:     "tools",
		HistoryLimit: 10,
		LogLevel:     "info",
		LogFormat:    "json",
		Model: ModelConfig{
			Provider:    "openai",
			Temperature: 0.7,
		},
	}
}

// Load builds the configuration from the optional YAML file at path (empty
// path or missing file is fine) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "CONVOKE_ADDR")
	setString(&c.AgentsDir, "CONVOKE_AGENTS_DIR")
	setString(&c.ToolsDir, "CONVOKE_TOOLS_DIR")
	setString(&c.StaticDir, "CONVOKE_STATIC_DIR")
	setString(&c.LogLevel, "CONVOKE_LOG_LEVEL")
	setString(&c.LogFormat, "CONVOKE_LOG_FORMAT")
	setString(&c.Model.Provider, "CONVOKE_MODEL_PROVIDER")
	setString(&c.Model.Name, "CONVOKE_MODEL")

	if v := os.Getenv("CONVOKE_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.HistoryLimit = n
		}
	}
	if v := os.Getenv("CONVOKE_MODEL_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Model.Temperature = f
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
