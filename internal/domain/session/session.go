package session

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind a session cookie. The raw cookie value
// is never stored, stores key sessions by Key (an HMAC of the raw value).
type Session struct {
	Key       string    `json:"-"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Subject is the display identity handed back by the profile endpoint.
type Subject struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s Session) Subject() Subject {
	return Subject{Email: s.Email, Name: s.Name}
}
