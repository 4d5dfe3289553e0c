package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrVerificationFailed wraps every reason a token is rejected. Callers treat it
// as "sign in rejected", not as a server error.
var ErrVerificationFailed = errors.New("identity verification failed")

type Claim struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Claim, error)
}

// VerifierFunc adapts a plain function, mostly for tests.
type VerifierFunc func(ctx context.Context, token string) (Claim, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (Claim, error) {
	return f(ctx, token)
}

// WellFormed reports whether token has the header.payload.signature shape.
// It says nothing about whether the segments decode.
func WellFormed(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}

	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}

	return true
}

func checkClaim(c Claim) error {
	if c.Subject == "" {
		return errors.Join(ErrVerificationFailed, errors.New("missing subject"))
	}
	if c.Email == "" {
		return errors.Join(ErrVerificationFailed, errors.New("missing email"))
	}
	return nil
}
