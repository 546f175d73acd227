package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/experience-cart/migrations"
)

// Migrate applies every pending embedded migration to db and returns the
// number of migrations applied.
func Migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB) (int, error) {
	provider, err := goose.NewProvider(dialect, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("repo.Migrate: create provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.Migrate: up: %w", err)
	}
	return len(results), nil
}
