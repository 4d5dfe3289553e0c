package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a bare 500 and keeps the process serving.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		reqID, _ := ctx.Get(CtxRequestID)

		slog.ErrorContext(ctx.Request.Context(), "handler panic",
			"panic", recovered,
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"request_id", reqID,
		)

		ctx.AbortWithStatus(http.StatusInternalServerError)
	})
}
