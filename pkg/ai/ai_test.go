package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"syncode-backend/pkg/gemini"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAssistant struct {
	answer string
	err    error
	calls  int
}

func (s *stubAssistant) Answer(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.answer, s.err
}

func TestOpenAIService_Answer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req chatCompletionRequest
		require.NoError(t, sonic.Unmarshal(body, &req))
		assert.Equal(t, "gpt-4", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "how?", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"like this"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAIService("sk-test", "")
	o.baseURL = srv.URL

	got, err := o.Answer(context.Background(), "you help", "how?")
	require.NoError(t, err)
	assert.Equal(t, "like this", got)
}

func TestOllamaService_Answer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req ollamaGenerateRequest
		require.NoError(t, sonic.Unmarshal(body, &req))
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, "sys", req.System)
		assert.False(t, req.Stream)

		_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
	}))
	defer srv.Close()

	got, err := NewOllamaService(srv.URL, "").Answer(context.Background(), "sys", "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestFallbackService(t *testing.T) {
	first := &stubAssistant{err: errors.New("429 too many requests")}
	second := &stubAssistant{answer: "from second"}
	f := NewFallbackService(zap.NewNop(),
		Provider{Name: "first", Assistant: first},
		Provider{Name: "second", Assistant: second},
	)

	got, err := f.Answer(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, "from second", got)
	assert.Equal(t, 1, first.calls)
}

func TestFallbackService_AllFail(t *testing.T) {
	f := NewFallbackService(zap.NewNop(),
		Provider{Name: "a", Assistant: &stubAssistant{err: errors.New("dial tcp: connection refused")}},
		Provider{Name: "b", Assistant: &stubAssistant{err: errors.New("boom")}},
	)

	_, err := f.Answer(context.Background(), "", "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: dial tcp")
	assert.Contains(t, err.Error(), "b: boom")
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("RESOURCE_EXHAUSTED")))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:1: connection refused")))
	assert.False(t, isConnectionError(errors.New("bad request")))
	assert.Equal(t, "quota", reason(errors.New("rate limit")))
}

func TestNewAssistant(t *testing.T) {
	a, err := NewAssistant(Config{Provider: ProviderOpenAI, OpenAIAPIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAIService{}, a)

	_, err = NewAssistant(Config{Provider: ProviderGemini}, zap.NewNop())
	assert.Error(t, err)

	a, err = NewAssistant(Config{Provider: ProviderGemini, GeminiAPIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &gemini.GeminiService{}, a)

	a, err = NewAssistant(Config{Provider: ProviderAuto}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &OllamaService{}, a)

	a, err = NewAssistant(Config{Provider: ProviderAuto, OpenAIAPIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &FallbackService{}, a)

	_, err = NewAssistant(Config{Provider: "mystery"}, zap.NewNop())
	assert.Error(t, err)
}
