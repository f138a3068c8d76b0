package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultToastDuration = 4000 * time.Millisecond

type Toast struct {
	ID       uuid.UUID     `json:"id"`
	Seq      uint64        `json:"seq"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"-"`
	ShownAt  time.Time     `json:"shownAt"`
}

// DurationMs is the wire form of Duration.
func (t Toast) DurationMs() int64 {
	return t.Duration.Milliseconds()
}

type DismissReason string

const (
	DismissClose     DismissReason = "close"
	DismissClickaway DismissReason = "clickaway"
	DismissTimeout   DismissReason = "timeout"
)

// ToastShown and ToastDismissed carry the owner of the banner they belong
// to and the banner's change sequence, so a listener can drop stale events.
type ToastShown struct {
	Owner string
	Toast Toast
}

type ToastDismissed struct {
	Owner  string
	Seq    uint64
	ID     uuid.UUID
	Reason DismissReason
}

type Notifier interface {
	Show(message string, duration ...time.Duration) Toast
}

// Toaster is one banner slot.
type Toaster interface {
	Notifier
	Current() (Toast, bool)
	Dismiss(reason DismissReason) bool
}
