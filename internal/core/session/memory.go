// Package session remembers the signed-in user after a successful login.
package session

import (
	"context"
	"sync"
	"time"

	"portal/internal/domain"

	"github.com/google/uuid"
)

type entry struct {
	user      domain.User
	expiresAt time.Time
}

// MemoryStore is the single-process session store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

var _ domain.SessionStore = (*MemoryStore)(nil)

func (s *MemoryStore) Save(_ context.Context, user domain.User) (*domain.Session, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = entry{user: user, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return &domain.Session{ID: id, User: user}, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.ttl > 0 && !s.now().Before(e.expiresAt) {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}

	return &domain.Session{ID: id, User: e.user}, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Purge drops expired sessions and returns how many were removed.
func (s *MemoryStore) Purge() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
