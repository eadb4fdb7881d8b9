package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIService implements Assistant over the chat completions API
type OpenAIService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAIService(apiKey, model string) *OpenAIService {
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAIService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Answer implements Assistant
func (o *OpenAIService) Answer(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	var result chatCompletionResponse
	err := postJSON(ctx, o.client, strings.TrimRight(o.baseURL, "/")+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + o.apiKey},
		chatCompletionRequest{Model: o.model, Messages: messages, Temperature: 0.2},
		&result,
	)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return result.Choices[0].Message.Content, nil
}
