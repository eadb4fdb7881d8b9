package ai

import (
	"context"
	"fmt"
	"net/http"
)

// OllamaService implements Assistant using an Ollama local LLM
type OllamaService struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Answer implements Assistant
func (o *OllamaService) Answer(ctx context.Context, system, prompt string) (string, error) {
	var result ollamaGenerateResponse
	err := postJSON(ctx, o.client, o.baseURL+"/api/generate", nil, ollamaGenerateRequest{
		Model:   o.model,
		System:  system,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": 0.2},
	}, &result)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	return result.Response, nil
}
