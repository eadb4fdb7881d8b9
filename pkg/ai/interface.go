package ai

import (
	"context"
)

// Assistant answers a prompt under a system instruction.
// Implement this interface to add new AI providers.
type Assistant interface {
	Answer(ctx context.Context, system, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
