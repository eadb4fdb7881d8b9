package domain

import "time"

// RunHistory records one execution made by a signed-in user.
type RunHistory struct {
	ID        string    `json:"_id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	Language  string    `json:"language"`
	Code      string    `json:"code" gorm:"type:text"`
	Output    string    `json:"output" gorm:"type:text"`
	CreatedAt time.Time `json:"time" gorm:"index"`
}
