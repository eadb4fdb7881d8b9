package repository

import (
	"errors"
	"time"

	"syncode-backend/internal/snippet/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormSnippetRepository implements SnippetRepository using GORM
type gormSnippetRepository struct {
	db *gorm.DB
}

// NewGormSnippetRepository creates a new GORM-based SnippetRepository
func NewGormSnippetRepository(db *gorm.DB) SnippetRepository {
	return &gormSnippetRepository{db: db}
}

func (r *gormSnippetRepository) Create(snippet *domain.Snippet) error {
	if snippet.ID == "" {
		snippet.ID = uuid.New().String()
	}
	snippet.CreatedAt = time.Now()
	snippet.UpdatedAt = snippet.CreatedAt
	return r.db.Create(snippet).Error
}

func (r *gormSnippetRepository) FindByID(id string) (*domain.Snippet, error) {
	var snippet domain.Snippet
	err := r.db.Where("id = ?", id).First(&snippet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snippet, nil
}

func (r *gormSnippetRepository) FindByUserID(userID string) ([]*domain.Snippet, error) {
	var snippets []*domain.Snippet
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&snippets).Error
	return snippets, err
}

func (r *gormSnippetRepository) FindAll() ([]*domain.Snippet, error) {
	var snippets []*domain.Snippet
	err := r.db.Order("created_at DESC").Find(&snippets).Error
	return snippets, err
}

func (r *gormSnippetRepository) Update(snippet *domain.Snippet) error {
	snippet.UpdatedAt = time.Now()
	return r.db.Save(snippet).Error
}

func (r *gormSnippetRepository) Delete(id string) error {
	return r.db.Delete(&domain.Snippet{}, "id = ?", id).Error
}
