package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoguard/backend/internal/domain"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs   []execCall
	execErr error
	tag     pgconn.CommandTag
	row     pgx.Row
	pingErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return f.tag, f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return f.row
}

func (f *fakeDB) Ping(context.Context) error {
	return f.pingErr
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *bool:
			*p = r.values[i].(bool)
		case **time.Time:
			*p = r.values[i].(*time.Time)
		}
	}
	return nil
}

func TestSessionRepository_Save(t *testing.T) {
	db := &fakeDB{}
	repo := NewSessionRepository(db)

	session := domain.Session{ID: "abc", Name: "Ada", Email: "ada@example.com", Picture: "p.png", Authenticated: true}
	require.NoError(t, repo.Save(context.Background(), session, time.Hour))

	require.Len(t, db.execs, 1)
	call := db.execs[0]
	assert.Contains(t, call.sql, "INSERT INTO sessions")
	assert.Contains(t, call.sql, "ON CONFLICT (id)")
	require.Len(t, call.args, 6)
	assert.Equal(t, "abc", call.args[0])
	assert.Equal(t, true, call.args[4])

	expires, ok := call.args[5].(*time.Time)
	require.True(t, ok)
	require.NotNil(t, expires)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *expires, time.Minute)

	require.NoError(t, repo.Save(context.Background(), session, 0))
	assert.Nil(t, db.execs[1].args[5].(*time.Time))
}

func TestSessionRepository_SaveError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}
	err := NewSessionRepository(db).Save(context.Background(), domain.Session{ID: "x"}, time.Hour)

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "postgres: failed to save session"))
}

func TestSessionRepository_Get(t *testing.T) {
	expires := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{"abc", "Ada", "ada@example.com", "p.png", true, &expires}}}

	got, err := NewSessionRepository(db).Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{
		ID: "abc", Name: "Ada", Email: "ada@example.com", Picture: "p.png",
		Authenticated: true, ExpiresAt: expires,
	}, got)
}

func TestSessionRepository_GetMissing(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	_, err := NewSessionRepository(db).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	db.row = fakeRow{err: errors.New("boom")}
	_, err = NewSessionRepository(db).Get(context.Background(), "nope")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_DeleteAndPurge(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("DELETE 3")}
	repo := NewSessionRepository(db)

	require.NoError(t, repo.Delete(context.Background(), "abc"))
	assert.Equal(t, []any{"abc"}, db.execs[0].args)

	n, err := repo.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.Contains(t, db.execs[2].sql, "CREATE TABLE IF NOT EXISTS sessions")
}

func TestSessionRepository_Health(t *testing.T) {
	assert.NoError(t, NewSessionRepository(&fakeDB{}).Health(context.Background()))

	err := NewSessionRepository(&fakeDB{pingErr: errors.New("down")}).Health(context.Background())
	assert.ErrorContains(t, err, "postgres: health check failed")
}
