package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fieldpos/syncqueue/internal/x/sqlx"
)

// Leases are stored in the syncqueue_lease table, one row per namespace. A
// row whose expires_at has passed no longer grants access to the namespace
// and is purged by the next attempt to take a lease.
//
// SQLite has no native timestamp type, so expires_at is a Unix time in
// nanoseconds computed by the client.

// AcquireLock takes a lease on ns that expires after ttl.
func (driver) AcquireLock(
	ctx context.Context,
	db *sql.DB,
	ns string,
	ttl time.Duration,
) (id int64, ok bool, err error) {
	defer sqlx.Recover(&err)

	now := time.Now()
	purgeExpiredLeases(ctx, db, now)

	id, ok = sqlx.Insert(
		ctx,
		db,
		`INSERT INTO syncqueue_lease (namespace, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (namespace) DO NOTHING`,
		ns,
		now.Add(ttl).UnixNano(),
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

	now := time.Now()

	ok = sqlx.ExecOne(
		ctx,
		db,
		`UPDATE syncqueue_lease
		SET expires_at = $1
		WHERE id = $2 AND expires_at > $3`,
		now.Add(ttl).UnixNano(),
		id,
		now.UnixNano(),
	)

	return ok, nil
}

// ReleaseLock gives up a lease. Releasing a lease that has already been
// purged is not an error.
func (driver) ReleaseLock(ctx context.Context, db *sql.DB, id int64) (err error) {
	defer sqlx.Recover(&err)

	sqlx.Exec(ctx, db, `DELETE FROM syncqueue_lease WHERE id = $1`, id)

	return nil
}

func purgeExpiredLeases(ctx context.Context, db sqlx.DB, now time.Time) {
	sqlx.Exec(
		ctx,
		db,
		`DELETE FROM syncqueue_lease WHERE expires_at <= $1`,
		now.UnixNano(),
	)
}

func createLeaseSchema(ctx context.Context, db sqlx.DB) {
	sqlx.Exec(
		ctx,
		db,
		`CREATE TABLE IF NOT EXISTS syncqueue_lease (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			namespace  TEXT NOT NULL UNIQUE,
			expires_at INTEGER NOT NULL
		)`,
	)
}

func dropLeaseSchema(ctx context.Context, db sqlx.DB) {
	sqlx.Exec(ctx, db, `DROP TABLE IF EXISTS syncqueue_lease`)
}
