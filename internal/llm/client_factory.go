package llm

import (
	"fmt"

	"segcraft/internal/config"
)

// NewClientFromConfig creates an LLM client from configuration. A nil client
// with a nil error means mock mode: no credential is configured and the
// pipeline must serve fixtures instead of calling out.
func NewClientFromConfig(cfg *config.Config) (LLMClient, error) {
	if cfg.MockMode() {
		return nil, nil
	}

	timeout := cfg.GetLLMTimeout()

	switch cfg.LLM.Provider {
	case "openai":
		conf := DefaultOpenAIConfig(cfg.LLM.APIKey)
		conf.Timeout = timeout
		if cfg.LLM.Model != "" {
			conf.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			conf.BaseURL = cfg.LLM.BaseURL
		}
		return NewOpenAIClientWithConfig(conf), nil

	case "gemini":
		conf := DefaultGeminiConfig(cfg.LLM.APIKey)
		conf.Timeout = timeout
		if cfg.LLM.Model != "" {
			conf.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			conf.BaseURL = cfg.LLM.BaseURL
		}
		return NewGeminiClientWithConfig(conf), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.LLM.Provider)
	}
}
