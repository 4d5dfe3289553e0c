package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localIssuer = "signin-local"

type localClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// LocalManager issues and verifies HS256 identity tokens shaped like Google's.
// It stands in for Google in dev and in tests.
type LocalManager struct {
	secret []byte
	ttl    time.Duration
}

func NewLocalManager(secret string, ttl time.Duration) *LocalManager {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &LocalManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *LocalManager) Issue(c Claim) (string, error) {
	now := time.Now().UTC()

	claims := localClaims{
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Name:          c.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    localIssuer,
			Subject:   c.Subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *LocalManager) Verify(_ context.Context, tokenStr string) (Claim, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &localClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(localIssuer), jwt.WithExpirationRequired())

	if err != nil {
		return Claim{}, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	lc, ok := token.Claims.(*localClaims)
	if !ok || !token.Valid {
		return Claim{}, fmt.Errorf("%w: invalid token", ErrVerificationFailed)
	}

	c := Claim{
		Subject:       lc.Subject,
		Email:         lc.Email,
		EmailVerified: lc.EmailVerified,
		Name:          lc.Name,
	}

	if err := checkClaim(c); err != nil {
		return Claim{}, err
	}

	return c, nil
}
