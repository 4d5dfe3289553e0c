package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/signin/internal/domain/session"
	"github.com/geocoder89/signin/internal/redisclient"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "signin:session:"

// SessionsRepo keeps sessions in redis; expiry is redis' TTL.
type SessionsRepo struct {
	client *redisclient.Client
}

func NewSessionsRepo(client *redisclient.Client) *SessionsRepo {
	return &SessionsRepo{client: client}
}

func (r *SessionsRepo) Create(ctx context.Context, s session.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired at %s", s.ExpiresAt.Format(time.RFC3339))
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.client.Raw().Set(ctx, keyPrefix+s.Key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

func (r *SessionsRepo) Get(ctx context.Context, key string) (session.Session, error) {
	payload, err := r.client.Raw().Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return session.Session{}, fmt.Errorf("decode session: %w", err)
	}
	s.Key = key

	// redis TTL has second granularity
	if s.Expired(time.Now()) {
		return session.Session{}, session.ErrNotFound
	}

	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Raw().Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

func (r *SessionsRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
