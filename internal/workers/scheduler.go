package workers

import (
	"context"
	"time"

	"portal/internal/logger"
)

// Scheduler runs each worker on its own ticker until ctx is cancelled.
type Scheduler struct {
	log logger.Logger
}

func NewScheduler(log logger.Logger) *Scheduler {
	return &Scheduler{log: log}
}

func (s *Scheduler) RunByDuration(ctx context.Context, every time.Duration, w Worker) {
	go s.loop(ctx, every, w)
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, w Worker) {
	tick := time.NewTicker(every)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("worker: stopped", "name", w.Name())
			return
		case <-tick.C:
			s.runOnce(ctx, w)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, w Worker) {
	began := time.Now()
	if err := w.Run(ctx); err != nil {
		s.log.Error("worker: run failed", "name", w.Name(), "error", err)
		return
	}
	s.log.Debug("worker: run complete", "name", w.Name(), "took", time.Since(began))
}
