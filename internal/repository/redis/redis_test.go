package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoguard/backend/internal/domain"
)

// unreachable returns a client for a port nothing listens on
func unreachable(t *testing.T) *goredis.Client {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestKey(t *testing.T) {
	assert.Equal(t, "session:abc", Key("abc"))
}

func TestSessionCache_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	cache := NewSessionCache(unreachable(t))

	err := cache.Save(ctx, domain.Session{ID: "abc"}, time.Minute)
	assert.ErrorContains(t, err, "redis: failed to save session")

	_, err = cache.Get(ctx, "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorContains(t, err, "redis: failed to load session")

	assert.ErrorContains(t, cache.Delete(ctx, "abc"), "redis: failed to delete session")
	assert.ErrorContains(t, cache.Health(ctx), "redis: health check failed")
}
