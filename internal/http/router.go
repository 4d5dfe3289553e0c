package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/signin/internal/auth"
	"github.com/geocoder89/signin/internal/config"
	"github.com/geocoder89/signin/internal/http/handlers"
	"github.com/geocoder89/signin/internal/http/middlewares"
	"github.com/geocoder89/signin/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

// UserStore is everything the routes need from the users table.
type UserStore interface {
	handlers.LoginUserStore
	handlers.UserCreator
	Ping(ctx context.Context) error
}

type SessionManager interface {
	handlers.SessionManager
	Ping(ctx context.Context) error
}

type Deps struct {
	Users    UserStore
	Sessions SessionManager
	Verifier auth.Verifier

	// optional: no metrics middleware or /metrics without them
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg config.Config, deps Deps) (*gin.Engine, error) {
	if deps.Users == nil || deps.Sessions == nil || deps.Verifier == nil {
		return nil, errors.New("router: users, sessions and verifier are required")
	}

	if cfg.Env != "dev" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	// logger and metrics sit outside Recovery so a panic still shows up as a 500
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// unmatched routes get a bare 404, no default body
	r.NoRoute(func(ctx *gin.Context) {
		ctx.AbortWithStatus(http.StatusNotFound)
	})

	// health
	h := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"users":    deps.Users,
		"sessions": deps.Sessions,
	})
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	index, err := handlers.NewIndexHandler(cfg.GoogleClientID)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Verifier, deps.Sessions, deps.Prom)
	usersHandler := handlers.NewUsersHandler(deps.Users, deps.Sessions)

	r.GET("/", index.Index)
	r.POST("/auth/google", authHandler.GoogleLogin)
	r.POST("/register", usersHandler.Register)
	r.GET("/user", usersHandler.Me)
	r.POST("/logout", authHandler.Logout)

	return r, nil
}
