package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize caps how much of a sandbox response is read into memory.
const maxResponseSize = 4 << 20

type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
	Runtime  string   `json:"runtime,omitempty"`
}

type File struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

type ExecuteRequest struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Files    []File   `json:"files"`
	Stdin    string   `json:"stdin,omitempty"`
	Args     []string `json:"args,omitempty"`
}

// RemoteError is a non-2xx answer from Piston. Body is the remote payload,
// always valid JSON.
type RemoteError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("piston: status %d: %s", e.StatusCode, string(e.Body))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient talks to the Piston API rooted at baseURL (for example
// https://emkc.org/api/v2/piston). A nil httpClient gets a traced default.
// Deadlines come from the caller's context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Runtimes lists the installed language runtimes.
func (c *Client) Runtimes(ctx context.Context) ([]Runtime, error) {
	body, err := c.do(ctx, http.MethodGet, "/runtimes", nil)
	if err != nil {
		return nil, err
	}

	var runtimes []Runtime
	if err := sonic.Unmarshal(body, &runtimes); err != nil {
		return nil, fmt.Errorf("piston: decode runtimes: %w", err)
	}
	return runtimes, nil
}

// Execute submits code and returns the raw result document.
func (c *Client) Execute(ctx context.Context, req ExecuteRequest) (json.RawMessage, error) {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("piston: encode request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/execute", payload)
	if err != nil {
		return nil, err
	}
	if !sonic.Valid(body) {
		return nil, fmt.Errorf("piston: execute returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("piston: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("piston: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("piston: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: asJSON(body)}
	}
	return body, nil
}

// asJSON keeps a JSON body as-is and wraps anything else as a JSON string.
func asJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && sonic.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, err := sonic.Marshal(map[string]string{"message": string(trimmed)})
	if err != nil {
		return json.RawMessage(`{"message":"unreadable response"}`)
	}
	return quoted
}
