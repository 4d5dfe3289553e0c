package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/signin/internal/auth"
	"github.com/geocoder89/signin/internal/config"
	"github.com/geocoder89/signin/internal/db"
	httpx "github.com/geocoder89/signin/internal/http"
	"github.com/geocoder89/signin/internal/observability"
	"github.com/geocoder89/signin/internal/redisclient"
	"github.com/geocoder89/signin/internal/repo/memory"
	"github.com/geocoder89/signin/internal/repo/postgres"
	"github.com/geocoder89/signin/internal/repo/redisrepo"
	"github.com/geocoder89/signin/internal/repo/sqlite"
	"github.com/geocoder89/signin/internal/sessions"
)

func openUserStore(ctx context.Context, cfg config.Config, prom *observability.Prom) (httpx.UserStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		if err := db.MigrateSQLite(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}

		return sqlite.NewUsersRepo(sqlDB, prom), func() { _ = sqlDB.Close() }, nil

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DBURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			return nil, nil, err
		}

		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return postgres.NewUsersRepo(pool, prom), pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func openSessionStore(ctx context.Context, cfg config.Config) (sessions.Store, func(), error) {
	switch cfg.SessionDriver {
	case config.SessionsMemory:
		return memory.NewSessionsRepo(), func() {}, nil

	case config.SessionsRedis:
		client := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Timeout:  cfg.RedisTimeout,
		})

		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}

		return redisrepo.NewSessionsRepo(client), func() { _ = client.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown SESSION_DRIVER %q", cfg.SessionDriver)
}

// Google when a client id is configured. Dev falls back to locally signed
// tokens so the flow can be driven without Google.
func newVerifier(cfg config.Config) (auth.Verifier, error) {
	if cfg.GoogleClientID != "" {
		// key fetches outlive startup, so no deadline here
		return auth.NewGoogleVerifier(context.Background(), cfg.GoogleClientID)
	}

	if cfg.Env != "dev" {
		return nil, errors.New("GOOGLE_CLIENT_ID is required outside dev")
	}

	slog.Warn("GOOGLE_CLIENT_ID not set, accepting locally signed identity tokens")

	return auth.NewLocalManager(cfg.LocalTokenSecret, cfg.SessionTTL), nil
}
