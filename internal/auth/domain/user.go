package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // Never return password in JSON
	Role      Role      `json:"role" gorm:"default:user;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanAccess is the single ownership rule for per-resource operations:
// the owner or any admin.
func (u *User) CanAccess(ownerID string) bool {
	if u == nil {
		return false
	}
	return u.ID == ownerID || u.Role == RoleAdmin
}
