package domain

import "time"

// Snippet is a saved piece of code owned by one user. JSON names match what
// the web client already reads.
type Snippet struct {
	ID        string    `json:"_id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	Language  string    `json:"language" gorm:"not null"`
	Code      string    `json:"code" gorm:"type:text;not null"`
	Pinned    bool      `json:"pinned" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}
