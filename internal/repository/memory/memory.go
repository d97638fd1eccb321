package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ecoguard/backend/internal/domain"
)

// SessionStore implements domain.SessionStore in process memory. It is the
// default when neither Redis nor PostgreSQL is configured.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	now      func() time.Time
}

type entry struct {
	session domain.Session
	expires time.Time
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Save stores the session until ttl elapses; a non-positive ttl never expires
func (s *SessionStore) Save(ctx context.Context, session domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{session: session}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.sessions[session.ID] = e
	s.sweepLocked()
	return nil
}

// Get returns a live session
func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return e.session, nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Health always returns nil in memory mode
func (s *SessionStore) Health(ctx context.Context) error {
	return nil
}

func (s *SessionStore) expired(e entry) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}

func (s *SessionStore) sweepLocked() {
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
		}
	}
}
