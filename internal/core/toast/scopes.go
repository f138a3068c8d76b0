package toast

import (
	"sync"
	"time"

	"portal/internal/domain"
	"portal/internal/logger"
)

// Scopes keeps one banner per browser so a login result is only ever shown
// to the browser that submitted it.
type Scopes struct {
	mu    sync.Mutex
	slots map[string]*scope
	opts  []Option
	log   logger.Logger
	now   func() time.Time
}

type scope struct {
	banner  *Broadcaster
	touched time.Time
}

// NewScopes builds banners lazily with opts plus the owner tag.
func NewScopes(log logger.Logger, opts ...Option) *Scopes {
	return &Scopes{
		slots: map[string]*scope{},
		opts:  opts,
		log:   log,
		now:   time.Now,
	}
}

// For returns owner's banner, creating it on first use.
func (s *Scopes) For(owner string) domain.Toaster {
	return s.banner(owner)
}

func (s *Scopes) banner(owner string) *Broadcaster {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.slots[owner]
	if !ok {
		opts := append(append([]Option{}, s.opts...), WithOwner(owner))
		sc = &scope{banner: NewBroadcaster(s.log, opts...)}
		s.slots[owner] = sc
	}
	sc.touched = s.now()
	return sc.banner
}

func (s *Scopes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Prune forgets banners that show nothing and were not used for idle.
func (s *Scopes) Prune(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for owner, sc := range s.slots {
		if sc.touched.After(cutoff) {
			continue
		}
		if _, showing := sc.banner.Current(); showing {
			continue
		}
		delete(s.slots, owner)
		n++
	}
	if n > 0 {
		s.log.Debug("toast: idle banners pruned", "count", n, "remaining", len(s.slots))
	}
	return n
}
