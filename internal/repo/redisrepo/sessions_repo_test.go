package redisrepo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/signin/internal/domain/session"
	"github.com/geocoder89/signin/internal/redisclient"
	"github.com/geocoder89/signin/internal/repo/redisrepo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *redisrepo.SessionsRepo {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redisclient.New(redisclient.Config{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()))

	return redisrepo.NewSessionsRepo(client)
}

func TestSessionsRepo_Lifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	s := session.Session{
		Key:       uuid.NewString(),
		UserID:    "u1",
		Email:     "test@example.com",
		Name:      "Test User",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}

	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, s.Key)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, s.Subject(), got.Subject())
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, repo.Delete(ctx, s.Key))

	_, err = repo.Get(ctx, s.Key)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionsRepo_RejectsExpired(t *testing.T) {
	repo := setupRepo(t)

	err := repo.Create(context.Background(), session.Session{Key: uuid.NewString(), ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}
