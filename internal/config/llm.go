package config

import (
	"fmt"
	"time"
)

// LLMConfig configures the LLM provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openai", "gemini"}

// MockMode reports whether the pipeline must use mock fixtures: true when no
// API key is configured.
func (c *Config) MockMode() bool {
	return c.LLM.APIKey == ""
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// Validate validates the configuration. An empty API key is valid (mock
// mode); a configured key demands a known provider.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return nil
	}

	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			return nil
		}
	}
	return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
}
