// Package notify runs periodic jobs such as the catalog refresh.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler fires a job every Every until its context ends.
type Scheduler struct {
	Every time.Duration
	Log   *zap.Logger
}

// Next reports when the job runs after now. A zero time means never.
func (s *Scheduler) Next(now time.Time) time.Time {
	if s.Every <= 0 {
		return time.Time{}
	}
	return now.Add(s.Every)
}

// Run calls job at every tick and blocks until ctx is done. Job errors are
// logged and do not stop the loop. A non-positive Every returns at once.
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	for {
		next := s.Next(time.Now())
		if next.IsZero() {
			return
		}
		t := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		start := time.Now()
		if err := job(ctx); err != nil {
			log.Warn("scheduled job failed", zap.Error(err))
			continue
		}
		log.Debug("scheduled job done", zap.Duration("took", time.Since(start)))
	}
}
