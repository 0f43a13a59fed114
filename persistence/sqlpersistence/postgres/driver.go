package postgres

import (
	"context"
	"database/sql"

	"github.com/fieldpos/syncqueue/internal/x/sqlx"
)

// Driver is an implementation of sqlpersistence.Driver for PostgreSQL.
var Driver = driver{}

type driver struct{}

// IsCompatibleWith returns nil if this driver can be used with db.
func (driver) IsCompatibleWith(ctx context.Context, db *sql.DB) error {
	// Verify that we're using PostgreSQL and that $1-style placeholders are
	// supported.
	return db.QueryRowContext(
		ctx,
		`SELECT pg_backend_pid() WHERE 1 = $1`,
		1,
	).Err()
}

// CreateSchema creates any SQL schema elements required by the driver.
func (driver) CreateSchema(ctx context.Context, db *sql.DB) (err error) {
	defer sqlx.Recover(&err)

	sqlx.InTx(ctx, db, func(tx *sql.Tx) {
		sqlx.Exec(ctx, tx, `CREATE SCHEMA IF NOT EXISTS syncqueue`)
		createDocumentSchema(ctx, tx)
		createLeaseSchema(ctx, tx)
	})

	return nil
}

// DropSchema removes any SQL schema elements created by CreateSchema().
func (driver) DropSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `DROP SCHEMA IF EXISTS syncqueue CASCADE`)
	return err
}
