package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/geocoder89/signin/internal/auth"
	"github.com/geocoder89/signin/internal/domain/user"
	"github.com/geocoder89/signin/internal/observability"
	"github.com/gin-gonic/gin"
)

type LoginUserStore interface {
	UpsertLogin(ctx context.Context, ident user.Identity, at time.Time) (user.User, error)
	MarkLogout(ctx context.Context, id string, at time.Time) error
}

type AuthHandler struct {
	users    LoginUserStore
	verifier auth.Verifier
	sessions SessionManager
	prom     *observability.Prom
	now      func() time.Time
}

func NewAuthHandler(users LoginUserStore, verifier auth.Verifier, sessions SessionManager, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:    users,
		verifier: verifier,
		sessions: sessions,
		prom:     prom,
		now:      time.Now,
	}
}

type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) GoogleLogin(ctx *gin.Context) {
	var req GoogleLoginRequest

	// anything short of a three part token is a client error
	if err := ctx.ShouldBindJSON(&req); err != nil || !auth.WellFormed(req.Token) {
		h.prom.ObserveLogin("malformed")
		RespondBadRequest(ctx, msgInvalidTokenFormat)
		return
	}

	// verification reaches out to Google for keys
	vctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	claim, err := h.verifier.Verify(vctx, req.Token)
	if err != nil {
		if !errors.Is(err, auth.ErrVerificationFailed) {
			slog.WarnContext(ctx.Request.Context(), "identity verifier error", "err", err)
		} else {
			slog.DebugContext(ctx.Request.Context(), "identity token rejected", "err", err)
		}

		h.prom.ObserveLogin("rejected")
		RespondSoftFailure(ctx, "Token verification failed")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.UpsertLogin(cctx, user.Identity{
		Subject: claim.Subject,
		Email:   normalizeEmail(claim.Email),
		Name:    strings.TrimSpace(claim.Name),
	}, h.now().UTC())

	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyUsed) {
			h.prom.ObserveLogin("conflict")
			RespondConflict(ctx, msgEmailTaken)
			return
		}

		slog.ErrorContext(ctx.Request.Context(), "login upsert failed", "err", err, "subject", claim.Subject)
		h.prom.ObserveLogin("error")
		RespondInternal(ctx, "Could not sign in")
		return
	}

	if _, err := h.sessions.Start(ctx, u.ID, u.Email, u.Name); err != nil {
		slog.ErrorContext(ctx.Request.Context(), "session start failed", "err", err, "user_id", u.ID)
		h.prom.ObserveLogin("error")
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.prom.ObserveLogin("success")
	h.prom.SessionStarted()

	slog.InfoContext(ctx.Request.Context(), "user signed in", "user_id", u.ID, "email_verified", claim.EmailVerified)

	RespondSuccess(ctx, nil)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	s, ok := requireSession(ctx, h.sessions)
	if !ok {
		return
	}

	if err := h.sessions.End(ctx, s); err != nil {
		slog.ErrorContext(ctx.Request.Context(), "session end failed", "err", err, "user_id", s.UserID)
		RespondInternal(ctx, "Could not sign out")
		return
	}

	h.prom.SessionEnded()

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// the session is gone already, a failed stamp only costs us the audit field
	if err := h.users.MarkLogout(cctx, s.UserID, h.now().UTC()); err != nil {
		slog.WarnContext(ctx.Request.Context(), "logout time not recorded", "err", err, "user_id", s.UserID)
	}

	RespondSuccess(ctx, nil)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
