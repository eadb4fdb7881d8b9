package domain

import "time"

// SnippetRef is one retrieved document that fed an answer.
type SnippetRef struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Answer is the structured reply the assistant is asked to produce.
type Answer struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// ChatLog records one question asked of the coding assistant.
type ChatLog struct {
	ID        string       `json:"_id" gorm:"primaryKey"`
	UserID    string       `json:"user" gorm:"index;not null"`
	Question  string       `json:"question" gorm:"type:text;not null"`
	Answer    string       `json:"answer" gorm:"type:text;not null"`
	Snippets  []SnippetRef `json:"snippetsReturned" gorm:"serializer:json"`
	CreatedAt time.Time    `json:"createdAt" gorm:"index"`
}
