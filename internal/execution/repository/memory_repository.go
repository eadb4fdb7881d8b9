package repository

import (
	"sync"
	"time"

	"syncode-backend/internal/execution/domain"

	"github.com/google/uuid"
)

type memoryRunHistoryRepository struct {
	mu   sync.RWMutex
	runs []domain.RunHistory // append order
}

func NewMemoryRunHistoryRepository() RunHistoryRepository {
	return &memoryRunHistoryRepository{}
}

func (r *memoryRunHistoryRepository) Create(run *domain.RunHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now()
	r.runs = append(r.runs, *run)
	return nil
}

func (r *memoryRunHistoryRepository) FindByUserID(userID string, limit int) ([]*domain.RunHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.RunHistory, 0)
	for i := len(r.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.runs[i].UserID == userID {
			run := r.runs[i]
			out = append(out, &run)
		}
	}
	return out, nil
}
