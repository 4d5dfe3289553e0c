package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/geocoder89/signin/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserCreator interface {
	Create(ctx context.Context, u user.User) (user.User, error)
}

type UsersHandler struct {
	users    UserCreator
	sessions SessionResolver
}

func NewUsersHandler(users UserCreator, sessions SessionResolver) *UsersHandler {
	return &UsersHandler{users: users, sessions: sessions}
}

// Register creates a user without a third-party identity. It does not sign
// the user in.
func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	// fields arrive trimmed, see user.RegisterRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, user.NewFromRegisterRequest(req))
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyUsed) {
			RespondConflict(ctx, msgEmailTaken)
			return
		}

		slog.ErrorContext(ctx.Request.Context(), "register failed", "err", err)
		RespondInternal(ctx, "Could not register user")
		return
	}

	RespondSuccess(ctx, gin.H{"user": u})
}

// Me answers from the session alone; the store is not consulted.
func (h *UsersHandler) Me(ctx *gin.Context) {
	s, ok := requireSession(ctx, h.sessions)
	if !ok {
		return
	}

	RespondSuccess(ctx, gin.H{"user": s.Subject()})
}
