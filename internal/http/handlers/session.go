package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/signin/internal/domain/session"
	"github.com/gin-gonic/gin"
)

// SessionResolver is injected into every protected handler, which resolves the
// session explicitly instead of reading middleware state.
type SessionResolver interface {
	Resolve(r *http.Request) (session.Session, error)
}

type SessionManager interface {
	SessionResolver
	Start(ctx *gin.Context, userID, email, name string) (session.Session, error)
	End(ctx *gin.Context, s session.Session) error
}

// requireSession writes the 401 (or 500 when the store is unreachable) itself.
func requireSession(ctx *gin.Context, resolver SessionResolver) (session.Session, bool) {
	s, err := resolver.Resolve(ctx.Request)
	if err == nil {
		return s, true
	}

	if errors.Is(err, session.ErrNotFound) {
		RespondUnauthenticated(ctx)
		return session.Session{}, false
	}

	slog.ErrorContext(ctx.Request.Context(), "session lookup failed", "err", err)
	RespondInternal(ctx, "Could not load session")
	return session.Session{}, false
}
