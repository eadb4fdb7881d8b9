package ai

import (
	"fmt"

	"syncode-backend/pkg/gemini"

	"go.uber.org/zap"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType

	OpenAIAPIKey string
	OpenAIModel  string

	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewAssistant creates an Assistant based on the config.
// Switch AI provider by changing cfg.Provider; "auto" chains every provider
// that has credentials, ending with Ollama.
func NewAssistant(cfg Config, log *zap.Logger) (Assistant, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewGeminiService(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	case ProviderAuto, "":
		var providers []Provider
		if cfg.OpenAIAPIKey != "" {
			providers = append(providers, Provider{Name: "openai", Assistant: NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)})
		}
		if cfg.GeminiAPIKey != "" {
			providers = append(providers, Provider{Name: "gemini", Assistant: gemini.NewGeminiService(cfg.GeminiAPIKey)})
		}
		providers = append(providers, Provider{Name: "ollama", Assistant: NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)})
		if len(providers) == 1 {
			return providers[0].Assistant, nil
		}
		return NewFallbackService(log, providers...), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
