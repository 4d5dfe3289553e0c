package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	SessionsMemory = "memory"
	SessionsRedis  = "redis"

	// must match the envDefault tags below
	devSessionSecret = "dev-session-secret"
	devTokenSecret   = "dev-token-secret"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port int    `env:"PORT" envDefault:"8080"`

	// user store
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"signin.db"`
	DBURL       string `env:"DB_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"signin"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"signin"`
	DBName      string `env:"DB_NAME" envDefault:"signin"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"5"`

	// sessions
	SessionDriver     string        `env:"SESSION_DRIVER" envDefault:"memory"`
	SessionSecret     string        `env:"SESSION_SECRET" envDefault:"dev-session-secret"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`
	RedisAddr         string        `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB" envDefault:"0"`
	RedisTimeout      time.Duration `env:"REDIS_TIMEOUT" envDefault:"2s"`

	// identity
	GoogleClientID   string `env:"GOOGLE_CLIENT_ID"`
	LocalTokenSecret string `env:"LOCAL_TOKEN_SECRET" envDefault:"dev-token-secret"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// tracing is off when no endpoint is set
	OTELEndpoint string `env:"OTEL_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"signin"`
}

// Load reads .env (when present) and the environment. Any parse or
// validation error is returned; there is no fallback configuration.
func Load() (Config, error) {
	// a missing .env is the normal case outside local dev
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Parse reads the environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBURL == "" {
		cfg.DBURL = cfg.buildDBURL()
	}

	cfg.AllowedOrigins = trimCSV(cfg.AllowedOrigins)

	return cfg, nil
}

// Validate only relaxes anything in dev. Every other env needs real secrets
// and a Google client id, so locally signed identity tokens are never accepted.
func (c Config) Validate() error {
	var errs []error

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	if c.Env != "dev" {
		if c.SessionSecret == "" || c.SessionSecret == devSessionSecret {
			errs = append(errs, fmt.Errorf("SESSION_SECRET must be set in %s", c.Env))
		}
		if c.LocalTokenSecret == devTokenSecret {
			errs = append(errs, fmt.Errorf("LOCAL_TOKEN_SECRET still holds the dev default in %s", c.Env))
		}
		if c.GoogleClientID == "" {
			errs = append(errs, fmt.Errorf("GOOGLE_CLIENT_ID must be set in %s", c.Env))
		}
	}

	return errors.Join(errs...)
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (c Config) buildDBURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
