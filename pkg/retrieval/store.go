package retrieval

import (
	"context"
	"strings"
	"sync"
)

// DefaultK is how many documents a query returns when the caller asks for none.
const DefaultK = 3

type Document struct {
	ID     string `json:"id"`
	UserID string `json:"userId,omitempty"`
	Text   string `json:"text"`
}

// Store indexes documents and returns the ones relevant to a query.
type Store interface {
	// Add inserts doc, replacing any document with the same ID.
	Add(ctx context.Context, doc Document) error
	Query(ctx context.Context, query string, k int) ([]Document, error)
}

// MemoryStore matches documents containing the query, case-insensitively,
// in insertion order.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if doc.ID != "" && s.docs[i].ID == doc.ID {
			s.docs[i] = doc
			return nil
		}
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		k = DefaultK
	}
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, k)
	for _, d := range s.docs {
		if len(out) == k {
			break
		}
		if strings.Contains(strings.ToLower(d.Text), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
