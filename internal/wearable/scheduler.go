package wearable

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler periodically runs the feed sync for all users.
type Scheduler struct {
	log      *zap.Logger
	sync     SyncService
	interval time.Duration
}

func NewScheduler(log *zap.Logger, sync SyncService, interval time.Duration) *Scheduler {
	return &Scheduler{
		log:      log,
		sync:     sync,
		interval: interval,
	}
}

// Start runs the scheduler in a goroutine until ctx is cancelled. The first
// sync fires immediately so a fresh deploy does not wait a full interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting feed sync scheduler", zap.Duration("interval", s.interval))
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runSync(ctx)
		for {
			select {
			case <-ctx.Done():
				s.log.Info("feed sync scheduler stopped")
				return
			case <-ticker.C:
				s.runSync(ctx)
			}
		}
	}()
}

func (s *Scheduler) runSync(ctx context.Context) {
	if err := s.sync.SyncAll(ctx); err != nil {
		s.log.Error("feed sync pass failed", zap.Error(err))
	}
}
