// Package redis keeps signed-in sessions in Redis so several portal
// processes can share them.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portal/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portal:session:"

type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(r *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: r, ttl: ttl}
}

var _ domain.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(ctx context.Context, user domain.User) (*domain.Session, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("session marshal failed: %w", err)
	}

	session := &domain.Session{ID: uuid.NewString(), User: user}
	if err := s.redis.Set(ctx, keyPrefix+session.ID, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("session set failed: %w", err)
	}

	return session, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.redis.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get failed: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("session unmarshal failed: %w", err)
	}

	return &domain.Session{ID: id, User: user}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session del failed: %w", err)
	}
	return nil
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis not responding: %w", err)
	}

	return client, nil
}
