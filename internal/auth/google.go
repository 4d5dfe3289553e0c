package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	googleIssuer   = "https://accounts.google.com"
	googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"
)

// GoogleVerifier checks Google Identity Services ID tokens: signature against
// Google's published keys, issuer, audience (our client id) and expiry.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// ctx bounds the background key fetches, pass a process-lifetime context.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}

	keySet := oidc.NewRemoteKeySet(ctx, googleCertsURL)

	return &GoogleVerifier{
		verifier: oidc.NewVerifier(googleIssuer, keySet, &oidc.Config{ClientID: clientID}),
	}, nil
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (Claim, error) {
	idToken, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return Claim{}, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	var gc googleClaims
	if err := idToken.Claims(&gc); err != nil {
		return Claim{}, fmt.Errorf("%w: decode claims: %w", ErrVerificationFailed, err)
	}

	c := Claim{
		Subject:       idToken.Subject,
		Email:         gc.Email,
		EmailVerified: gc.EmailVerified,
		Name:          gc.Name,
	}

	if err := checkClaim(c); err != nil {
		return Claim{}, err
	}

	return c, nil
}
