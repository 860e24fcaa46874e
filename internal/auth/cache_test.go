package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newCacheRepo(t *testing.T) *sessionRepository {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &sessionRepository{cache: client, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSessionCacheRoundTrip(t *testing.T) {
	repo := newCacheRepo(t)
	ctx := context.Background()

	session := Session{
		ID:        "s1",
		Token:     "tok-abc",
		UserID:    "u1",
		CompanyID: "c1",
		ExpiresAt: time.Now().Add(RefreshTTL).Truncate(time.Second),
		CreatedAt: time.Now().Truncate(time.Second),
	}
	repo.cacheSet(ctx, session)

	got, ok := repo.cacheGet(ctx, "tok-abc")
	require.True(t, ok)
	require.Equal(t, session.ID, got.ID)
	require.Equal(t, session.UserID, got.UserID)
	require.Equal(t, "tok-abc", got.Token)
}

func TestSessionCacheMiss(t *testing.T) {
	repo := newCacheRepo(t)

	_, ok := repo.cacheGet(context.Background(), "absent")
	require.False(t, ok)
}

func TestSessionCacheSkipsExpired(t *testing.T) {
	repo := newCacheRepo(t)

	repo.cacheSet(context.Background(), Session{
		ID:        "s2",
		Token:     "tok-old",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	_, ok := repo.cacheGet(context.Background(), "tok-old")
	require.False(t, ok)
}
