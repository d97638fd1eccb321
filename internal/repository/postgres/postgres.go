package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ecoguard/backend/internal/domain"
)

// DB is the subset of *pgxpool.Pool the repository needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// SessionRepository implements domain.SessionStore on PostgreSQL
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// EnsureSchema creates the sessions table when missing
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS sessions (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			picture       TEXT NOT NULL DEFAULT '',
			authenticated BOOLEAN NOT NULL DEFAULT FALSE,
			expires_at    TIMESTAMPTZ
		)
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to create sessions table: %w", err)
	}
	return nil
}

// Save upserts a session; a non-positive ttl never expires
func (r *SessionRepository) Save(ctx context.Context, session domain.Session, ttl time.Duration) error {
	query := `
		INSERT INTO sessions (id, name, email, picture, authenticated, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			picture = EXCLUDED.picture,
			authenticated = EXCLUDED.authenticated,
			expires_at = EXCLUDED.expires_at
	`

	// NULL expires_at means the session never expires
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl).UTC()
		expiresAt = &t
	}

	_, err := r.db.Exec(ctx, query,
		session.ID, session.Name, session.Email, session.Picture, session.Authenticated, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a live session
func (r *SessionRepository) Get(ctx context.Context, id string) (domain.Session, error) {
	query := `
		SELECT id, name, email, picture, authenticated, expires_at
		FROM sessions
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())
	`

	var (
		s         domain.Session
		expiresAt *time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.Picture, &s.Authenticated, &expiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("postgres: failed to load session: %w", err)
	}
	if expiresAt != nil {
		s.ExpiresAt = *expiresAt
	}

	return s, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired sessions and reports how many were removed
func (r *SessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Health checks database connectivity
func (r *SessionRepository) Health(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
