package repository

import (
	"time"

	"syncode-backend/internal/execution/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRunHistoryRepository struct {
	db *gorm.DB
}

func NewGormRunHistoryRepository(db *gorm.DB) RunHistoryRepository {
	return &gormRunHistoryRepository{db: db}
}

func (r *gormRunHistoryRepository) Create(run *domain.RunHistory) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	run.CreatedAt = time.Now()
	return r.db.Create(run).Error
}

func (r *gormRunHistoryRepository) FindByUserID(userID string, limit int) ([]*domain.RunHistory, error) {
	var runs []*domain.RunHistory
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
