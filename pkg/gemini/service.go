package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiService struct {
	ApiKey  string
	Model   string
	BaseURL string
	client  *http.Client
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		ApiKey:  apiKey,
		Model:   "gemini-2.5-flash",
		BaseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Answer sends prompt under the given system instruction and returns the
// first candidate's text.
func (g *GeminiService) Answer(ctx context.Context, system, prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.ApiKey)

	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if system != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result generateResponse
	if err := sonic.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
		return result.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", fmt.Errorf("no answer returned")
}
