package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/fieldpos/syncqueue/internal/x/sqlx"
)

// Leases are stored in syncqueue_lease, one row per namespace, with expiry
// measured against the server's clock.

// AcquireLock takes a lease on ns that expires after ttl.
func (driver) AcquireLock(
	ctx context.Context,
	db *sql.DB,
	ns string,
	ttl time.Duration,
) (id int64, ok bool, err error) {
	defer sqlx.Recover(&err)

	sqlx.Exec(
		ctx,
		db,
		`DELETE FROM syncqueue_lease WHERE expires_at <= CURRENT_TIMESTAMP(6)`,
	)

	// The no-op update on conflict leaves zero affected rows, which Insert()
	// reports as not ok.
	id, ok = sqlx.Insert(
		ctx,
		db,
		`INSERT INTO syncqueue_lease (namespace, expires_at)
		VALUES (?, CURRENT_TIMESTAMP(6) + INTERVAL ? MICROSECOND)
		ON DUPLICATE KEY UPDATE id = id`,
		ns,
		ttl.Microseconds(),
	)

	return id, ok, nil
}

// RenewLock pushes the expiry of an unexpired lease out to ttl from now.
func (driver) RenewLock(
	ctx context.Context,
	db *sql.DB,
	id int64,
	ttl time.Duration,
) (ok bool, err error) {
	defer sqlx.Recover(&err)

	// MySQL only counts a row as affected if a value changes, renewals
	// guarantees one does.
	ok = sqlx.ExecOne(
		ctx,
		db,
		`UPDATE syncqueue_lease
		SET expires_at = CURRENT_TIMESTAMP(6) + INTERVAL ? MICROSECOND,
			renewals = renewals + 1
		WHERE id = ? AND expires_at > CURRENT_TIMESTAMP(6)`,
		ttl.Microseconds(),
		id,
	)

	return ok, nil
}

// ReleaseLock gives up a lease. Releasing a lease that has already been
// purged is not an error.
func (driver) ReleaseLock(ctx context.Context, db *sql.DB, id int64) (err error) {
	defer sqlx.Recover(&err)

	sqlx.Exec(ctx, db, `DELETE FROM syncqueue_lease WHERE id = ?`, id)

	return nil
}

func createLeaseSchema(ctx context.Context, db sqlx.DB) {
	sqlx.Exec(
		ctx,
		db,
		`CREATE TABLE IF NOT EXISTS syncqueue_lease (
			id         BIGINT NOT NULL PRIMARY KEY AUTO_INCREMENT,
			namespace  VARBINARY(255) NOT NULL UNIQUE,
			expires_at TIMESTAMP(6) NOT NULL,
			renewals   INTEGER NOT NULL DEFAULT 0
		) ENGINE=InnoDB`,
	)
}

func dropLeaseSchema(ctx context.Context, db sqlx.DB) {
	sqlx.Exec(ctx, db, `DROP TABLE IF EXISTS syncqueue_lease`)
}
