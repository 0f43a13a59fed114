// Package sqlx contains helpers for running SQL statements that report
// failures by panicking with a value that Recover() converts back to an error.
package sqlx

import (
	"context"
	"database/sql"
)

// DB is the subset of *sql.DB and *sql.Tx used by the SQL drivers.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DB = (*sql.DB)(nil)
	_ DB = (*sql.Tx)(nil)
)

// InTx calls fn within a transaction and commits it if fn returns normally.
//
// The transaction is rolled back if fn panics.
func InTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx)) {
	tx, err := db.BeginTx(ctx, nil)
	Must(err)
	defer tx.Rollback() // nolint:errcheck

	fn(tx)

	Must(tx.Commit())
}
