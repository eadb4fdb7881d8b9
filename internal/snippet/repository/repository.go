package repository

import "syncode-backend/internal/snippet/domain"

// SnippetRepository defines the interface for snippet data access.
// List methods return newest first.
type SnippetRepository interface {
	Create(snippet *domain.Snippet) error

	// FindByID returns nil, nil when the id does not resolve
	FindByID(id string) (*domain.Snippet, error)

	FindByUserID(userID string) ([]*domain.Snippet, error)
	FindAll() ([]*domain.Snippet, error)
	Update(snippet *domain.Snippet) error
	Delete(id string) error
}
