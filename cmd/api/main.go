package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/signin/internal/config"
	httpx "github.com/geocoder89/signin/internal/http"
	"github.com/geocoder89/signin/internal/observability"
	"github.com/geocoder89/signin/internal/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up, a bad value stops startup
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config invalid", "err", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	// own registry so /metrics only carries what we register
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	users, closeUsers, err := openUserStore(ctx, cfg, prom)
	if err != nil {
		log.Error("user store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeUsers()

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Error("session store init failed", "driver", cfg.SessionDriver, "err", err)
		os.Exit(1)
	}
	defer closeSessions()

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Error("identity verifier init failed", "err", err)
		os.Exit(1)
	}

	manager := sessions.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL, sessions.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.IsProd(),
	})

	// set up routers with the wired deps
	router, err := httpx.NewRouter(cfg, httpx.Deps{
		Users:    users,
		Sessions: manager,
		Verifier: verifier,
		Prom:     prom,
		Gatherer: reg,
	})
	if err != nil {
		log.Error("router init failed", "err", err)
		os.Exit(1)
	}

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver, "sessions", cfg.SessionDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
