package mysql

import (
	"context"
	"database/sql"

	"github.com/fieldpos/syncqueue/internal/x/sqlx"
)

// Driver is an implementation of sqlpersistence.Driver for MySQL.
var Driver = driver{}

type driver struct{}

// IsCompatibleWith returns nil if this driver can be used with db.
func (driver) IsCompatibleWith(ctx context.Context, db *sql.DB) error {
	// Verify that ?-style placeholders are supported.
	err := db.QueryRowContext(
		ctx,
		`SELECT ?`,
		1,
	).Err()

	if err != nil {
		return err
	}

	// Verify that we're using something compatible with MySQL (because the SHOW
	// VARIABLES syntax is supported) and that InnoDB is available.
	return db.QueryRowContext(
		ctx,
		`SHOW VARIABLES LIKE "innodb_page_size"`,
	).Err()
}

// CreateSchema creates any SQL schema elements required by the driver.
//
// MySQL does not support transactional DDL, so the statements are executed
// directly.
func (driver) CreateSchema(ctx context.Context, db *sql.DB) (err error) {
	defer sqlx.Recover(&err)

	createDocumentSchema(ctx, db)
	createLeaseSchema(ctx, db)

	return nil
}

// DropSchema removes any SQL schema elements created by CreateSchema().
func (driver) DropSchema(ctx context.Context, db *sql.DB) (err error) {
	defer sqlx.Recover(&err)

	dropDocumentSchema(ctx, db)
	dropLeaseSchema(ctx, db)

	return nil
}
