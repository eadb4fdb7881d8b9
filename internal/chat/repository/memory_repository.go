package repository

import (
	"sync"
	"time"

	"syncode-backend/internal/chat/domain"

	"github.com/google/uuid"
)

type memoryChatLogRepository struct {
	mu   sync.RWMutex
	logs []domain.ChatLog
}

func NewMemoryChatLogRepository() ChatLogRepository {
	return &memoryChatLogRepository{}
}

func (r *memoryChatLogRepository) Create(log *domain.ChatLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memoryChatLogRepository) FindByUserID(userID string, limit int) ([]*domain.ChatLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.ChatLog, 0)
	for i := len(r.logs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.logs[i].UserID == userID {
			l := r.logs[i]
			out = append(out, &l)
		}
	}
	return out, nil
}
