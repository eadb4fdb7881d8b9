package repository

import (
	"sync"
	"time"

	authdomain "syncode-backend/internal/auth/domain"

	"github.com/google/uuid"
)

// memoryUserRepository keeps users in process memory. Used when no
// DATABASE_URL is configured and by tests.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]authdomain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]authdomain.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = email
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(email string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *memoryUserRepository) FindByID(id string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memoryUserRepository) Update(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[user.ID]
	if !ok {
		return nil
	}
	email := normalizeEmail(user.Email)
	if email != old.Email {
		if _, taken := r.byEmail[email]; taken {
			return ErrDuplicateEmail
		}
		delete(r.byEmail, old.Email)
		r.byEmail[email] = user.ID
	}
	user.Email = email
	user.UpdatedAt = time.Now()
	r.byID[user.ID] = *user
	return nil
}
