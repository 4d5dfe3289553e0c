package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	msgNotAuthenticated   = "Not authenticated"
	msgInvalidTokenFormat = "Invalid token format"
	msgEmailTaken         = "Email is already registered"
)

// every error body is {"status":"error","message":...}, nothing else

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"status":  statusError,
		"message": message,
	})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondUnauthenticated(ctx *gin.Context) {
	RespondError(ctx, http.StatusUnauthorized, msgNotAuthenticated)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message)
}

// RespondSoftFailure reports a logical failure with a 200, the contract the
// sign-in page relies on for rejected identity tokens.
func RespondSoftFailure(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusOK, message)
}

func RespondSuccess(ctx *gin.Context, fields gin.H) {
	body := gin.H{"status": statusSuccess}
	for k, v := range fields {
		body[k] = v
	}
	ctx.JSON(http.StatusOK, body)
}
