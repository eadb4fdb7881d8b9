package repository

import (
	"time"

	"syncode-backend/internal/chat/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormChatLogRepository struct {
	db *gorm.DB
}

func NewGormChatLogRepository(db *gorm.DB) ChatLogRepository {
	return &gormChatLogRepository{db: db}
}

func (r *gormChatLogRepository) Create(log *domain.ChatLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now()
	return r.db.Create(log).Error
}

func (r *gormChatLogRepository) FindByUserID(userID string, limit int) ([]*domain.ChatLog, error) {
	var logs []*domain.ChatLog
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
