package repository

import "syncode-backend/internal/chat/domain"

type ChatLogRepository interface {
	Create(log *domain.ChatLog) error
	// FindByUserID returns newest first.
	FindByUserID(userID string, limit int) ([]*domain.ChatLog, error)
}
