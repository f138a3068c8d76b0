package session

import (
	"context"

	"portal/internal/domain"
)

// Recorder stores the user handed over by the login flow and keeps the
// resulting session so the caller can issue a cookie for it.
type Recorder struct {
	store   domain.SessionStore
	Session *domain.Session
}

func NewRecorder(store domain.SessionStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) SetUser(ctx context.Context, user domain.User) error {
	s, err := r.store.Save(ctx, user)
	if err != nil {
		return err
	}
	r.Session = s
	return nil
}
