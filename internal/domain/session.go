package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned by stores when no live session matches the id
var ErrSessionNotFound = errors.New("session not found")

// Profile is the identity provider's user record
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Session is the signed-in record kept for the presentation layer
type Session struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Picture       string    `json:"picture"`
	Authenticated bool      `json:"authenticated"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Viewer returns the signed-in affordance, or nil for anonymous sessions
func (s *Session) Viewer() *Viewer {
	if s == nil || !s.Authenticated {
		return nil
	}
	return &Viewer{Name: s.Name, Picture: s.Picture}
}

// SessionStore defines the interface for ephemeral session storage
// This follows the Dependency Inversion Principle - domain defines the interface
type SessionStore interface {
	// Save stores the session until ttl elapses
	Save(ctx context.Context, session Session, ttl time.Duration) error

	// Get returns a live session or ErrSessionNotFound
	Get(ctx context.Context, id string) (Session, error)

	// Delete removes a session; deleting a missing session is not an error
	Delete(ctx context.Context, id string) error

	// Health checks store connectivity
	Health(ctx context.Context) error
}
