package domain

import "context"

type Session struct {
	ID   string `json:"id"`
	User User   `json:"user"`
}

type SessionStore interface {
	Save(ctx context.Context, user User) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
