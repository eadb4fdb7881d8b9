package usecase

import (
	"context"
	"encoding/json"
	"io"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/chat/domain"
)

// RemoteIndex is the external retrieval service. bearer is the caller's own
// access token, forwarded for delegated authorization.
type RemoteIndex interface {
	Retrieve(ctx context.Context, bearer, question, userID string) (string, error)
	UploadDocument(ctx context.Context, bearer, filename string, content io.Reader) (json.RawMessage, error)
	UploadSnippet(ctx context.Context, bearer, snippetID, code string) (json.RawMessage, error)
}

type AskResult struct {
	Answer        domain.Answer `json:"answer"`
	RetrievedDocs string        `json:"retrievedDocs"`
}

// ChatUsecase defines the coding assistant operations
type ChatUsecase interface {
	Ask(ctx context.Context, caller *authdomain.User, bearer, question string) (*AskResult, error)
	UploadDocument(ctx context.Context, caller *authdomain.User, bearer, filename string, content io.Reader) (json.RawMessage, error)
	AddSnippet(ctx context.Context, caller *authdomain.User, bearer, snippetID, code string) (json.RawMessage, error)
	GetHistory(caller *authdomain.User) ([]*domain.ChatLog, error)

	SetRemoteIndex(remote RemoteIndex)
}
