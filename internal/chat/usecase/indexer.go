package usecase

import (
	"context"
	"sync"
	"time"

	snippetdomain "syncode-backend/internal/snippet/domain"
	"syncode-backend/pkg/rag"
	"syncode-backend/pkg/retrieval"

	"go.uber.org/zap"
)

const indexTimeout = 30 * time.Second

// SnippetIndexer adds saved snippets to the retrieval store in the
// background so saving never waits on embeddings.
type SnippetIndexer struct {
	store       retrieval.Store
	log         *zap.Logger
	jobQueue    chan retrieval.Document
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	stopped     bool
	mu          sync.Mutex
}

// NewSnippetIndexer creates a new indexer
func NewSnippetIndexer(store retrieval.Store, workerCount int, log *zap.Logger) *SnippetIndexer {
	if workerCount <= 0 {
		workerCount = 2
	}
	return &SnippetIndexer{
		store:       store,
		log:         log,
		jobQueue:    make(chan retrieval.Document, 500),
		workerCount: workerCount,
	}
}

// Start starts the index workers
func (s *SnippetIndexer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker()
	}
	s.started = true
	s.log.Info("snippet indexer started", zap.Int("workers", s.workerCount))
}

// Stop drains queued jobs and waits for the workers
func (s *SnippetIndexer) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.jobQueue)
	s.mu.Unlock()

	s.workerWg.Wait()
	s.log.Info("snippet indexer stopped")
}

func (s *SnippetIndexer) worker() {
	defer s.workerWg.Done()

	for doc := range s.jobQueue {
		s.processJob(doc)
	}
}

func (s *SnippetIndexer) processJob(doc retrieval.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if err := s.store.Add(ctx, doc); err != nil {
		s.log.Warn("failed to index snippet", zap.String("doc_id", doc.ID), zap.Error(err))
		return
	}
	s.log.Debug("indexed snippet", zap.String("doc_id", doc.ID))
}

// QueueSnippet adds a snippet to the queue (non-blocking). It reports false
// when the queue is full or the indexer has stopped.
func (s *SnippetIndexer) QueueSnippet(snippet *snippetdomain.Snippet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	doc := retrieval.Document{
		ID:     rag.SnippetDocumentName(snippet.ID),
		UserID: snippet.UserID,
		Text:   snippet.Code,
	}
	select {
	case s.jobQueue <- doc:
		return true
	default:
		return false
	}
}
