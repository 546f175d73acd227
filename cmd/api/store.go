package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/experience-cart/internal/config"
	"github.com/pkordes/experience-cart/internal/repo"
)

// openStore builds the cart entry repository selected by cfg.StoreDriver,
// applying migrations first for the SQL backends. The returned func
// releases every resource the store holds.
func openStore(ctx context.Context, cfg config.Config) (repo.CartEntryRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate(ctx, goose.DialectSQLite3, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("sqlite store ready", "path", cfg.SQLitePath)
		return repo.NewSQLiteCartEntryRepo(db), func() { db.Close() }, nil

	case config.StorePostgres:
		// Migrations run over database/sql because goose needs *sql.DB;
		// queries use a pgxpool.
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open migration connection: %w", err)
		}
		err = migrate(ctx, goose.DialectPostgres, db)
		db.Close()
		if err != nil {
			return nil, nil, err
		}

		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		slog.Info("database connection established")
		return repo.NewCartEntryRepo(pool), pool.Close, nil

	default:
		slog.Info("memory store ready; carts are lost on restart")
		return repo.NewMemoryCartEntryRepo(), func() {}, nil
	}
}

func migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB) error {
	applied, err := repo.Migrate(ctx, dialect, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "dialect", string(dialect), "count", applied)
	return nil
}
