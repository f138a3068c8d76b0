package workers

import (
	"context"
	"time"

	"portal/internal/logger"
)

type SessionPurger interface {
	Purge() int
}

// SessionSweepWorker drops expired sessions from the in-memory store. Redis
// expires keys on its own and needs no sweep.
type SessionSweepWorker struct {
	store SessionPurger
	log   logger.Logger
}

func NewSessionSweepWorker(store SessionPurger, log logger.Logger) Worker {
	return &SessionSweepWorker{store: store, log: log}
}

func (w *SessionSweepWorker) Name() string {
	return "session_sweep"
}

func (w *SessionSweepWorker) Run(ctx context.Context) error {
	if n := w.store.Purge(); n > 0 {
		w.log.Info("expired sessions removed", "count", n)
	}
	return nil
}

type StaleDialogs interface {
	CancelStale(maxAge time.Duration) int
}

// DialogSweepWorker cancels verification dialogs nobody resolved.
type DialogSweepWorker struct {
	dialogs StaleDialogs
	maxAge  time.Duration
	log     logger.Logger
}

func NewDialogSweepWorker(dialogs StaleDialogs, maxAge time.Duration, log logger.Logger) Worker {
	return &DialogSweepWorker{dialogs: dialogs, maxAge: maxAge, log: log}
}

func (w *DialogSweepWorker) Name() string {
	return "dialog_sweep"
}

func (w *DialogSweepWorker) Run(ctx context.Context) error {
	if n := w.dialogs.CancelStale(w.maxAge); n > 0 {
		w.log.Info("stale verification dialogs cancelled", "count", n)
	}
	return nil
}

type IdleBanners interface {
	Prune(idle time.Duration) int
}

// ToastSweepWorker forgets per-browser banners that are empty and unused.
type ToastSweepWorker struct {
	banners IdleBanners
	idle    time.Duration
	log     logger.Logger
}

func NewToastSweepWorker(banners IdleBanners, idle time.Duration, log logger.Logger) Worker {
	return &ToastSweepWorker{banners: banners, idle: idle, log: log}
}

func (w *ToastSweepWorker) Name() string {
	return "toast_sweep"
}

func (w *ToastSweepWorker) Run(ctx context.Context) error {
	if n := w.banners.Prune(w.idle); n > 0 {
		w.log.Debug("idle banners removed", "count", n)
	}
	return nil
}
