package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/pkordes/experience-cart/internal/domain"
)

// OpenSQLite opens (creating if needed) the SQLite database at path.
// Callers apply migrations with Migrate before use.
func OpenSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("repo.OpenSQLite: path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return sqlDB, nil
}

// sqliteCartEntryRepo is the SQLite implementation of CartEntryRepo.
type sqliteCartEntryRepo struct {
	db *sql.DB
}

// NewSQLiteCartEntryRepo constructs a CartEntryRepo backed by a SQLite handle
// from OpenSQLite.
func NewSQLiteCartEntryRepo(db *sql.DB) CartEntryRepo {
	return &sqliteCartEntryRepo{db: db}
}

func (r *sqliteCartEntryRepo) Get(ctx context.Context, sessionID, key string) (string, error) {
	const q = `SELECT value FROM cart_entries WHERE session_id = ? AND key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, q, sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("repo.SQLiteCartEntryRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.SQLiteCartEntryRepo.Get: %w", err)
	}
	return value, nil
}

func (r *sqliteCartEntryRepo) Set(ctx context.Context, sessionID, key, value string) error {
	const q = `
		INSERT INTO cart_entries (session_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE
		SET value      = excluded.value,
		    updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, q, sessionID, key, value); err != nil {
		return fmt.Errorf("repo.SQLiteCartEntryRepo.Set: %w", err)
	}
	return nil
}

func (r *sqliteCartEntryRepo) Clear(ctx context.Context, sessionID, key string) error {
	const q = `DELETE FROM cart_entries WHERE session_id = ? AND key = ?`

	if _, err := r.db.ExecContext(ctx, q, sessionID, key); err != nil {
		return fmt.Errorf("repo.SQLiteCartEntryRepo.Clear: %w", err)
	}
	return nil
}

func (r *sqliteCartEntryRepo) ClearSession(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM cart_entries WHERE session_id = ?`

	if _, err := r.db.ExecContext(ctx, q, sessionID); err != nil {
		return fmt.Errorf("repo.SQLiteCartEntryRepo.ClearSession: %w", err)
	}
	return nil
}

func (r *sqliteCartEntryRepo) PruneStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	// CURRENT_TIMESTAMP is stored as UTC text, which datetime('now', ...)
	// also yields, so the comparison is lexical and index-friendly.
	const q = `
		DELETE FROM cart_entries
		WHERE session_id IN (
			SELECT session_id
			FROM cart_entries
			WHERE session_id IN (
				SELECT session_id FROM cart_entries
				WHERE updated_at < datetime('now', ?1)
			)
			GROUP BY session_id
			HAVING MAX(updated_at) < datetime('now', ?1)
		)`

	modifier := fmt.Sprintf("-%d seconds", int64(maxAge.Seconds()))
	res, err := r.db.ExecContext(ctx, q, modifier)
	if err != nil {
		return 0, fmt.Errorf("repo.SQLiteCartEntryRepo.PruneStale: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("repo.SQLiteCartEntryRepo.PruneStale: %w", err)
	}
	return n, nil
}
