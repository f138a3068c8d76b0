// Package workers
package workers

import (
	"context"
	"time"

	"portal/internal/logger"
)

type Worker interface {
	Name() string
	Run(ctx context.Context) error
}

type job struct {
	every  time.Duration
	worker Worker
}

type Manager struct {
	log logger.Logger

	scheduler *Scheduler
	jobs      []job
}

func NewManager(log logger.Logger, scheduler *Scheduler) *Manager {
	return &Manager{
		log:       log,
		scheduler: scheduler,
	}
}

// Add registers w to run every interval. Non-positive intervals are ignored.
func (m *Manager) Add(every time.Duration, w Worker) {
	if every <= 0 {
		m.log.Warn("worker: disabled", "name", w.Name())
		return
	}
	m.jobs = append(m.jobs, job{every: every, worker: w})
}

func (m *Manager) Start(ctx context.Context) {
	m.log.Info("worker: manager started", "workers", len(m.jobs))

	for _, j := range m.jobs {
		m.scheduler.RunByDuration(ctx, j.every, j.worker)
	}
}
