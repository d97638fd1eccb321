package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoguard/backend/internal/domain"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	session := domain.Session{ID: "s1", Name: "Ada", Email: "ada@example.com", Authenticated: true}
	require.NoError(t, store.Save(ctx, session, time.Hour))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, session, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, "missing"))
	assert.NoError(t, store.Health(ctx))
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, domain.Session{ID: "short"}, time.Minute))
	require.NoError(t, store.Save(ctx, domain.Session{ID: "forever"}, 0))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.Get(ctx, "forever")
	assert.NoError(t, err)

	require.NoError(t, store.Save(ctx, domain.Session{ID: "other"}, time.Hour))
	assert.Len(t, store.sessions, 2, "expired sessions are swept on save")
}
