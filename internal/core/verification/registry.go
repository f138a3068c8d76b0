package verification

import (
	"sync"
	"time"

	"portal/internal/domain"

	"github.com/google/uuid"
)

type entry struct {
	dialog   *Dialog
	result   <-chan Result
	openedAt time.Time
}

// Registry tracks dialogs opened through the HTTP API until they resolve.
type Registry struct {
	mu      sync.Mutex
	dialogs map[uuid.UUID]*entry
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		dialogs: make(map[uuid.UUID]*entry),
		now:     time.Now,
	}
}

func (r *Registry) Open(title string, initial domain.VerificationDecision) (uuid.UUID, *Dialog, error) {
	d := NewDialog(title)
	ch, err := d.Open(initial)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id := uuid.New()

	r.mu.Lock()
	r.dialogs[id] = &entry{dialog: d, result: ch, openedAt: r.now()}
	r.mu.Unlock()

	return id, d, nil
}

func (r *Registry) Get(id uuid.UUID) (*Dialog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.dialogs[id]
	if !ok {
		return nil, domain.ErrDialogNotFound
	}
	return e.dialog, nil
}

func (r *Registry) Confirm(id uuid.UUID) (Result, error) {
	e, err := r.take(id)
	if err != nil {
		return Result{}, err
	}
	if _, err := e.dialog.Confirm(); err != nil {
		return Result{}, err
	}
	return <-e.result, nil
}

func (r *Registry) Cancel(id uuid.UUID) (Result, error) {
	e, err := r.take(id)
	if err != nil {
		return Result{}, err
	}
	if err := e.dialog.Cancel(); err != nil {
		return Result{}, err
	}
	return <-e.result, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dialogs)
}

func (r *Registry) take(id uuid.UUID) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.dialogs[id]
	if !ok {
		return nil, domain.ErrDialogNotFound
	}
	delete(r.dialogs, id)
	return e, nil
}

// CancelStale cancels dialogs left open longer than maxAge and returns how
// many were dropped.
func (r *Registry) CancelStale(maxAge time.Duration) int {
	r.mu.Lock()
	cutoff := r.now().Add(-maxAge)
	var stale []*entry
	for id, e := range r.dialogs {
		if e.openedAt.Before(cutoff) {
			stale = append(stale, e)
			delete(r.dialogs, id)
		}
	}
	r.mu.Unlock()

	for _, e := range stale {
		_ = e.dialog.Cancel()
		<-e.result
	}
	return len(stale)
}
