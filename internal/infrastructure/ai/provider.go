package ai

import (
	"fmt"
	"strings"
)

// ProviderConfig selects and configures the model backend.
type ProviderConfig struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// NewModel returns the configured provider, or DisabledModel when its key is empty.
func NewModel(cfg ProviderConfig) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return DisabledModel{}, nil
		}
		return NewGeminiModel(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return DisabledModel{}, nil
		}
		return NewOpenAIModel(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.Provider)
	}
}
