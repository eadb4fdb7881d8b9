package repository

import "syncode-backend/internal/execution/domain"

// RunHistoryRepository stores run records; FindByUserID returns newest first.
type RunHistoryRepository interface {
	Create(run *domain.RunHistory) error
	FindByUserID(userID string, limit int) ([]*domain.RunHistory, error)
}
