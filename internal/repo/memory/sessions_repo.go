package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/signin/internal/domain/session"
)

// SessionsRepo is a process-local session table. Expired entries are dropped
// lazily on read.
type SessionsRepo struct {
	mu  sync.RWMutex
	m   map[string]session.Session
	now func() time.Time
}

func NewSessionsRepo() *SessionsRepo {
	return &SessionsRepo{
		m:   make(map[string]session.Session),
		now: time.Now,
	}
}

func (r *SessionsRepo) Create(_ context.Context, s session.Session) error {
	r.mu.Lock()
	r.m[s.Key] = s
	r.mu.Unlock()

	return nil
}

func (r *SessionsRepo) Get(_ context.Context, key string) (session.Session, error) {
	r.mu.RLock()
	s, ok := r.m[key]
	r.mu.RUnlock()

	if !ok {
		return session.Session{}, session.ErrNotFound
	}

	if s.Expired(r.now()) {
		r.mu.Lock()
		delete(r.m, key)
		r.mu.Unlock()
		return session.Session{}, session.ErrNotFound
	}

	return s, nil
}

func (r *SessionsRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.m, key)
	r.mu.Unlock()

	return nil
}

func (r *SessionsRepo) Ping(context.Context) error {
	return nil
}

// Len counts stored entries, expired ones included.
func (r *SessionsRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Clear drops every session, used to reset state between tests.
func (r *SessionsRepo) Clear() {
	r.mu.Lock()
	r.m = make(map[string]session.Session)
	r.mu.Unlock()
}
