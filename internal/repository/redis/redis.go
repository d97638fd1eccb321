package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ecoguard/backend/internal/domain"
)

const keyPrefix = "session:"

// SessionCache implements domain.SessionStore on Redis with key expiry
type SessionCache struct {
	client *goredis.Client
}

// NewSessionCache creates a new Redis session cache
func NewSessionCache(client *goredis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// Key returns the Redis key of a session id
func Key(id string) string {
	return keyPrefix + id
}

// Save stores the session as JSON; a non-positive ttl never expires
func (c *SessionCache) Save(ctx context.Context, session domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal session: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, Key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to save session: %w", err)
	}
	return nil
}

// Get returns a live session
func (c *SessionCache) Get(ctx context.Context, id string) (domain.Session, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("redis: failed to decode session: %w", err)
	}
	return session, nil
}

// Delete removes a session
func (c *SessionCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete session: %w", err)
	}
	return nil
}

// Health pings Redis
func (c *SessionCache) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: health check failed: %w", err)
	}
	return nil
}
