package sessions

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/geocoder89/signin/internal/domain/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Store interface {
	Create(ctx context.Context, s session.Session) error
	Get(ctx context.Context, key string) (session.Session, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type CookieConfig struct {
	Name   string
	Secure bool
}

// Manager ties the session cookie to the session table. The cookie carries a
// random token; the table only ever sees its HMAC.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	cookie CookieConfig
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, cookie CookieConfig) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if cookie.Name == "" {
		cookie.Name = "session_id"
	}

	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		cookie: cookie,
		now:    time.Now,
	}
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// Start opens a session bound to the user and sets the cookie on the response.
func (m *Manager) Start(ctx *gin.Context, userID, email, name string) (session.Session, error) {
	raw := uuid.NewString()
	now := m.now().UTC()

	s := session.Session{
		Key:       m.hash(raw),
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Create(ctx.Request.Context(), s); err != nil {
		return session.Session{}, fmt.Errorf("store session: %w", err)
	}

	m.setCookie(ctx, raw)

	return s, nil
}

// Resolve finds the live session behind the request's cookie. A missing cookie,
// an unknown token and an expired session all come back as session.ErrNotFound.
func (m *Manager) Resolve(r *http.Request) (session.Session, error) {
	c, err := r.Cookie(m.cookie.Name)
	if err != nil || c.Value == "" {
		return session.Session{}, session.ErrNotFound
	}

	s, err := m.store.Get(r.Context(), m.hash(c.Value))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("load session: %w", err)
	}

	if s.Expired(m.now()) {
		return session.Session{}, session.ErrNotFound
	}

	return s, nil
}

// End destroys the session and clears the cookie. The cookie is cleared even if
// the store delete fails.
func (m *Manager) End(ctx *gin.Context, s session.Session) error {
	m.clearCookie(ctx)

	if err := m.store.Delete(ctx.Request.Context(), s.Key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// Deterministic HMAC of the raw cookie value (pepper = session secret).
func (m *Manager) hash(raw string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

func (m *Manager) setCookie(ctx *gin.Context, raw string) {
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		m.cookie.Name,
		raw,
		int(m.ttl.Seconds()),
		"/",
		"",
		m.cookie.Secure,
		true, // HttpOnly.
	)
}

func (m *Manager) clearCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		m.cookie.Name,
		"",
		-1,
		"/",
		"",
		m.cookie.Secure,
		true,
	)
}
