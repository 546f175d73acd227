// Package repo contains the storage backends for cart sessions.
// Each backend implements CartEntryRepo: a key-value table partitioned by
// session id. No business logic lives here; only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/experience-cart/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CartEntryRepo stores serialized cart fields per session.
// The service layer depends on this interface, not on a concrete backend.
type CartEntryRepo interface {
	// Get returns the value stored under key for the session.
	// Returns domain.ErrNotFound if the key is not set.
	Get(ctx context.Context, sessionID, key string) (string, error)

	// Set inserts or overwrites the value stored under key.
	Set(ctx context.Context, sessionID, key, value string) error

	// Clear removes key from the session. Clearing a missing key is not an error.
	Clear(ctx context.Context, sessionID, key string) error

	// ClearSession removes every key of the session in one statement.
	ClearSession(ctx context.Context, sessionID string) error

	// PruneStale removes whole sessions whose newest entry is older than
	// maxAge and returns the number of entries removed.
	PruneStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

// pgCartEntryRepo is the Postgres implementation of CartEntryRepo.
type pgCartEntryRepo struct {
	db db
}

// NewCartEntryRepo constructs a Postgres CartEntryRepo.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCartEntryRepo(db db) CartEntryRepo {
	return &pgCartEntryRepo{db: db}
}

func (r *pgCartEntryRepo) Get(ctx context.Context, sessionID, key string) (string, error) {
	const q = `
		SELECT value
		FROM cart_entries
		WHERE session_id = @session_id AND key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"session_id": sessionID, "key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.CartEntryRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.CartEntryRepo.Get: %w", err)
	}
	return value, nil
}

func (r *pgCartEntryRepo) Set(ctx context.Context, sessionID, key, value string) error {
	const q = `
		INSERT INTO cart_entries (session_id, key, value)
		VALUES (@session_id, @key, @value)
		ON CONFLICT (session_id, key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = CURRENT_TIMESTAMP`

	args := pgx.NamedArgs{
		"session_id": sessionID,
		"key":        key,
		"value":      value,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.CartEntryRepo.Set: %w", err)
	}
	return nil
}

func (r *pgCartEntryRepo) Clear(ctx context.Context, sessionID, key string) error {
	const q = `DELETE FROM cart_entries WHERE session_id = @session_id AND key = @key`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"session_id": sessionID, "key": key}); err != nil {
		return fmt.Errorf("repo.CartEntryRepo.Clear: %w", err)
	}
	return nil
}

func (r *pgCartEntryRepo) ClearSession(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM cart_entries WHERE session_id = @session_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"session_id": sessionID}); err != nil {
		return fmt.Errorf("repo.CartEntryRepo.ClearSession: %w", err)
	}
	return nil
}

func (r *pgCartEntryRepo) PruneStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	// The inner scan narrows candidates through the updated_at index before
	// grouping, so fresh sessions are never touched.
	const q = `
		DELETE FROM cart_entries
		WHERE session_id IN (
			SELECT session_id
			FROM cart_entries
			WHERE session_id IN (
				SELECT session_id FROM cart_entries
				WHERE updated_at < CURRENT_TIMESTAMP - make_interval(secs => @age_seconds)
			)
			GROUP BY session_id
			HAVING MAX(updated_at) < CURRENT_TIMESTAMP - make_interval(secs => @age_seconds)
		)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"age_seconds": maxAge.Seconds()})
	if err != nil {
		return 0, fmt.Errorf("repo.CartEntryRepo.PruneStale: %w", err)
	}
	return tag.RowsAffected(), nil
}
