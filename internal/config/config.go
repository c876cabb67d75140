// Package config holds SegCraft configuration: a YAML file with environment
// overrides on top. Presence of a provider API key is what toggles live mode;
// without one the pipeline serves mock fixtures.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all SegCraft configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM provider configuration
	LLM LLMConfig `yaml:"llm"`

	// Fixture and sample file locations
	Paths PathsConfig `yaml:"paths"`

	// Generation history log
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig locates the fixture files loaded at startup.
type PathsConfig struct {
	Segments string `yaml:"segments"`
	Formats  string `yaml:"formats"`
	Samples  string `yaml:"samples"`
	Deck     string `yaml:"deck"`
}

// HistoryConfig configures the optional generation-run log.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "segcraft",
		Version: "0.1.0",

		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Timeout:  "120s",
		},

		Paths: PathsConfig{
			Segments: "segments/default_segments.json",
			Formats:  "formats/ad_formats.json",
			Samples:  "samples",
			Deck:     "deck/deck_config.json",
		},

		History: HistoryConfig{
			Enabled: false,
			Path:    "data/segcraft.db",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file is not an error:
// defaults plus environment overrides apply.
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

// applyEnvOverrides applies environment variable overrides. OPENAI_API_KEY
// wins over GEMINI_API_KEY when both are set.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}

	// MODEL_NAME is the historical name; SEGCRAFT_MODEL is the explicit one.
	if model := os.Getenv("MODEL_NAME"); model != "" {
		c.LLM.Model = model
	}
	if model := os.Getenv("SEGCRAFT_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if path := os.Getenv("SEGCRAFT_DB"); path != "" {
		c.History.Enabled = true
		c.History.Path = path
	}

	if level := os.Getenv("SEGCRAFT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
