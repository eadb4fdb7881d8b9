package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseSize = 4 << 20

// Client talks to the external retrieval service. Every call forwards the
// caller's bearer token so the service can authorize on its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// RemoteError is a non-2xx answer from the retrieval service.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("rag: status %d: %s", e.StatusCode, e.Body)
}

type retrieveRequest struct {
	Question string `json:"question"`
	UserID   string `json:"userId"`
}

type retrieveResponse struct {
	Text string `json:"text"`
}

// Retrieve returns the context text relevant to question.
func (c *Client) Retrieve(ctx context.Context, bearer, question, userID string) (string, error) {
	payload, err := sonic.Marshal(retrieveRequest{Question: question, UserID: userID})
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, "/api/rag/retrieve", bearer, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	var out retrieveResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("rag: decode retrieve response: %w", err)
	}
	return out.Text, nil
}

// UploadDocument forwards a file as multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, bearer, filename string, content io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("rag: read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, "/api/rag/uploadDocument", bearer, w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	return asJSON(body), nil
}

type snippetUpload struct {
	File string `json:"file"`
	Name string `json:"name"`
}

// UploadSnippet indexes a saved snippet as a text document.
func (c *Client) UploadSnippet(ctx context.Context, bearer, snippetID, code string) (json.RawMessage, error) {
	payload, err := sonic.Marshal(snippetUpload{File: code, Name: SnippetDocumentName(snippetID)})
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, "/api/rag/uploadDocument", bearer, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return asJSON(body), nil
}

func SnippetDocumentName(snippetID string) string {
	return "snippet-" + snippetID + ".txt"
}

func (c *Client) do(ctx context.Context, path, bearer, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("rag: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rag: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("rag: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func asJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if sonic.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, err := sonic.Marshal(string(trimmed))
	if err != nil {
		return json.RawMessage("null")
	}
	return quoted
}
