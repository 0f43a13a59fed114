package sqlite

import (
	"context"
	"database/sql"

	"github.com/fieldpos/syncqueue/internal/x/sqlx"
)

// Driver is an implementation of sqlpersistence.Driver for SQLite.
var Driver = driver{}

type driver struct{}

// IsCompatibleWith returns nil if this driver can be used with db.
func (driver) IsCompatibleWith(ctx context.Context, db *sql.DB) error {
	// Verify that we're using SQLite and that $1-style placeholders are
	// supported.
	return db.QueryRowContext(
		ctx,
		`SELECT sqlite_version() WHERE 1 = $1`,
		1,
	).Err()
}

// CreateSchema creates the schema elements required by the SQLite driver.
func (driver) CreateSchema(ctx context.Context, db *sql.DB) (err error) {
	defer sqlx.Recover(&err)

	sqlx.InTx(ctx, db, func(tx *sql.Tx) {
		createDocumentSchema(ctx, tx)
		createLeaseSchema(ctx, tx)
	})

	return nil
}

// DropSchema drops the schema elements required by the SQLite driver.
func (driver) DropSchema(ctx context.Context, db *sql.DB) (err error) {
	defer sqlx.Recover(&err)

	dropDocumentSchema(ctx, db)
	dropLeaseSchema(ctx, db)

	return nil
}
