package repository

import (
	"sort"
	"sync"
	"time"

	"syncode-backend/internal/snippet/domain"

	"github.com/google/uuid"
)

type memorySnippetRepository struct {
	mu       sync.RWMutex
	snippets map[string]domain.Snippet
	seq      map[string]uint64 // insertion order, breaks CreatedAt ties
	next     uint64
}

func NewMemorySnippetRepository() SnippetRepository {
	return &memorySnippetRepository{
		snippets: make(map[string]domain.Snippet),
		seq:      make(map[string]uint64),
	}
}

func (r *memorySnippetRepository) Create(snippet *domain.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snippet.ID == "" {
		snippet.ID = uuid.New().String()
	}
	snippet.CreatedAt = time.Now()
	snippet.UpdatedAt = snippet.CreatedAt
	r.snippets[snippet.ID] = *snippet
	r.next++
	r.seq[snippet.ID] = r.next
	return nil
}

func (r *memorySnippetRepository) FindByID(id string) (*domain.Snippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.snippets[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memorySnippetRepository) FindByUserID(userID string) ([]*domain.Snippet, error) {
	return r.filter(func(s *domain.Snippet) bool { return s.UserID == userID }), nil
}

func (r *memorySnippetRepository) FindAll() ([]*domain.Snippet, error) {
	return r.filter(func(*domain.Snippet) bool { return true }), nil
}

func (r *memorySnippetRepository) filter(keep func(*domain.Snippet) bool) []*domain.Snippet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Snippet, 0)
	for _, s := range r.snippets {
		s := s
		if keep(&s) {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out
}

func (r *memorySnippetRepository) Update(snippet *domain.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snippet.UpdatedAt = time.Now()
	r.snippets[snippet.ID] = *snippet
	return nil
}

func (r *memorySnippetRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.snippets, id)
	delete(r.seq, id)
	return nil
}
