package usecase

import (
	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/snippet/domain"
)

// SnippetUsecase defines the interface for snippet business logic.
// Every per-snippet operation checks the caller against the owner first.
type SnippetUsecase interface {
	// SaveSnippet stores a new snippet owned by the caller
	SaveSnippet(caller *authdomain.User, language, code string) (*domain.Snippet, error)

	// GetAllSnippets lists every snippet (admin only)
	GetAllSnippets(caller *authdomain.User) ([]*domain.Snippet, error)

	// GetUserSnippets lists one owner's snippets (owner or admin)
	GetUserSnippets(caller *authdomain.User, ownerID string) ([]*domain.Snippet, error)

	// GetSnippetByID retrieves a snippet by ID (with ownership check)
	GetSnippetByID(caller *authdomain.User, snippetID string) (*domain.Snippet, error)

	UpdateSnippet(caller *authdomain.User, snippetID string, updates SnippetUpdateRequest) (*domain.Snippet, error)
	SetPinned(caller *authdomain.User, snippetID string, pinned bool) (*domain.Snippet, error)
	DeleteSnippet(caller *authdomain.User, snippetID string) error

	// SetIndexer sets where saved snippets are queued for retrieval indexing
	SetIndexer(indexer Indexer)
}

// SnippetUpdateRequest carries replacement values; empty fields keep the
// stored value.
type SnippetUpdateRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Indexer accepts snippets for background indexing. QueueSnippet must not block.
type Indexer interface {
	QueueSnippet(snippet *domain.Snippet) bool
}
