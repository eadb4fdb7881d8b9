package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RuntimeRefresher keeps the runtime cache warm so /run rarely waits on the
// registry.
type RuntimeRefresher struct {
	resolver *RuntimeResolver
	interval time.Duration
	log      *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewRuntimeRefresher(resolver *RuntimeResolver, interval time.Duration, log *zap.Logger) *RuntimeRefresher {
	return &RuntimeRefresher{
		resolver: resolver,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the refresh loop. A non-positive interval disables it.
func (s *RuntimeRefresher) Start() {
	if s.interval <= 0 {
		close(s.done)
		return
	}

	s.log.Info("starting runtime refresher", zap.Duration("interval", s.interval))

	go func() {
		defer close(s.done)

		// Run immediately on start
		s.refresh()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.refresh()
			case <-s.stopChan:
				s.log.Info("runtime refresher stopped")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight refresh to finish.
func (s *RuntimeRefresher) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}

func (s *RuntimeRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.resolver.cfg.Timeout)
	defer cancel()

	runtimes, err := s.resolver.Refresh(ctx)
	if err != nil {
		return
	}
	s.log.Debug("runtime cache refreshed", zap.Int("runtimes", len(runtimes)))
}
