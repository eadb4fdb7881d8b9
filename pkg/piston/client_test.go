package piston

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Runtimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/piston/runtimes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"language":"python","version":"3.10.0","aliases":["py","py3"]}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v2/piston/", nil)
	runtimes, err := c.Runtimes(context.Background())
	require.NoError(t, err)
	require.Len(t, runtimes, 1)
	assert.Equal(t, "python", runtimes[0].Language)
	assert.Equal(t, "3.10.0", runtimes[0].Version)
	assert.Equal(t, []string{"py", "py3"}, runtimes[0].Aliases)
}

func TestClient_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/execute", r.URL.Path)

		var req ExecuteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "python", req.Language)
		assert.Equal(t, "3.10.0", req.Version)
		require.Len(t, req.Files, 1)
		assert.Equal(t, "print(1)", req.Files[0].Content)

		_, _ = io.WriteString(w, `{"run":{"stdout":"1\n","output":"1\n","code":0}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	out, err := c.Execute(context.Background(), ExecuteRequest{
		Language: "python",
		Version:  "3.10.0",
		Files:    []File{{Content: "print(1)"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"run":{"stdout":"1\n","output":"1\n","code":0}}`, string(out))
}

func TestClient_RemoteError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody string
	}{
		{"json body kept", `{"message":"runtime is unknown"}`, `{"message":"runtime is unknown"}`},
		{"text body wrapped", "bad gateway", `{"message":"bad gateway"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).Execute(context.Background(), ExecuteRequest{})
			var remote *RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, http.StatusBadRequest, remote.StatusCode)
			assert.JSONEq(t, tt.wantBody, string(remote.Body))
		})
	}
}

func TestClient_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, nil).Runtimes(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
