// Package migrations embeds the SQL migration files so they can be applied
// through the goose programmatic API at server start and in tests.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// The SQL is kept dialect-neutral so the same files serve Postgres and SQLite.
//
//go:embed *.sql
var FS embed.FS
