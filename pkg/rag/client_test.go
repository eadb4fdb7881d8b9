package rag

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_ForwardsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rag/retrieve", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req retrieveRequest
		require.NoError(t, sonic.Unmarshal(body, &req))
		assert.Equal(t, retrieveRequest{Question: "what?", UserID: "u1"}, req)

		_, _ = w.Write([]byte(`{"text":"some context"}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, srv.Client()).Retrieve(context.Background(), "tok", "what?", "u1")
	require.NoError(t, err)
	assert.Equal(t, "some context", got)
}

func TestUploadDocument_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rag/uploadDocument", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "notes.txt", hdr.Filename)
		assert.Equal(t, "hello", string(content))

		_, _ = w.Write([]byte(`{"chunks":1}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, srv.Client()).UploadDocument(context.Background(), "tok", "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chunks":1}`, string(got))
}

func TestUploadSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"file":"print(1)","name":"snippet-42.txt"}`, string(body))
		_, _ = w.Write([]byte(`indexed`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, srv.Client()).UploadSnippet(context.Background(), "", "42", "print(1)")
	require.NoError(t, err)
	assert.JSONEq(t, `"indexed"`, string(got))
}

func TestRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Retrieve(context.Background(), "", "q", "u")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
}
