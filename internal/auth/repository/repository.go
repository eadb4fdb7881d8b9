package repository

import (
	"errors"

	authdomain "syncode-backend/internal/auth/domain"
)

var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user data access.
// Find methods return nil, nil when nothing matches.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
}
