// Package toast holds the banner notification. A banner has a single slot:
// a later Show replaces whatever is displayed, nothing queues. The console
// owns one banner; the HTTP server keeps one per browser in Scopes.
package toast

import (
	"sync"
	"time"

	"portal/internal/core/event"
	"portal/internal/domain"
	"portal/internal/logger"

	"github.com/google/uuid"
)

type timer interface {
	Stop() bool
}

type Broadcaster struct {
	// order is held from a slot change until its event is published, so
	// listeners see changes in the same order as Current.
	order sync.Mutex

	mu      sync.Mutex
	current *domain.Toast
	expiry  timer
	seq     uint64
	owner   string

	defaultDuration time.Duration
	bus             *event.Bus
	log             logger.Logger

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) timer
}

type Option func(*Broadcaster)

func WithDefaultDuration(d time.Duration) Option {
	return func(b *Broadcaster) {
		if d > 0 {
			b.defaultDuration = d
		}
	}
}

func WithBus(bus *event.Bus) Option {
	return func(b *Broadcaster) {
		b.bus = bus
	}
}

// WithOwner tags every event with the browser the banner belongs to.
func WithOwner(owner string) Option {
	return func(b *Broadcaster) {
		b.owner = owner
	}
}

func NewBroadcaster(log logger.Logger, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		defaultDuration: domain.DefaultToastDuration,
		log:             log,
		now:             time.Now,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Show replaces the current toast. A non-positive duration falls back to the
// default. An empty message clears the slot, matching a falsy toast.
func (b *Broadcaster) Show(message string, duration ...time.Duration) domain.Toast {
	if message == "" {
		b.clear(domain.DismissClose)
		return domain.Toast{}
	}

	d := b.defaultDuration
	if len(duration) > 0 && duration[0] > 0 {
		d = duration[0]
	}

	t := domain.Toast{
		ID:       uuid.New(),
		Message:  message,
		Duration: d,
		ShownAt:  b.now(),
	}

	b.order.Lock()
	defer b.order.Unlock()

	b.mu.Lock()
	if b.expiry != nil {
		b.expiry.Stop()
	}
	b.seq++
	t.Seq = b.seq
	b.current = &t
	id := t.ID
	b.expiry = b.afterFunc(d, func() { b.expire(id) })
	b.mu.Unlock()

	b.log.Debug("toast: shown", "id", t.ID, "owner", b.owner, "duration", d)
	b.publish(domain.ToastShown{Owner: b.owner, Toast: t})

	return t
}

// Dismiss clears the toast on an explicit close. Clickaway is ignored.
// It reports whether a toast was removed.
func (b *Broadcaster) Dismiss(reason domain.DismissReason) bool {
	if reason == domain.DismissClickaway {
		return false
	}
	return b.clear(reason)
}

func (b *Broadcaster) Current() (domain.Toast, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return domain.Toast{}, false
	}
	return *b.current, true
}

func (b *Broadcaster) expire(id uuid.UUID) {
	b.order.Lock()
	defer b.order.Unlock()

	b.mu.Lock()
	if b.current == nil || b.current.ID != id {
		b.mu.Unlock()
		return
	}
	b.current = nil
	b.expiry = nil
	b.seq++
	seq := b.seq
	b.mu.Unlock()

	b.log.Debug("toast: expired", "id", id, "owner", b.owner)
	b.publish(domain.ToastDismissed{Owner: b.owner, Seq: seq, ID: id, Reason: domain.DismissTimeout})
}

func (b *Broadcaster) clear(reason domain.DismissReason) bool {
	b.order.Lock()
	defer b.order.Unlock()

	b.mu.Lock()
	if b.current == nil {
		b.mu.Unlock()
		return false
	}
	id := b.current.ID
	b.current = nil
	if b.expiry != nil {
		b.expiry.Stop()
		b.expiry = nil
	}
	b.seq++
	seq := b.seq
	b.mu.Unlock()

	b.log.Debug("toast: dismissed", "id", id, "owner", b.owner, "reason", reason)
	b.publish(domain.ToastDismissed{Owner: b.owner, Seq: seq, ID: id, Reason: reason})
	return true
}

// publish must be called with order held.
func (b *Broadcaster) publish(ev any) {
	if b.bus != nil {
		b.bus.Publish(ev)
	}
}
