package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/fieldpos/syncqueue/internal/x/sqlx"
)

// Leases are stored in syncqueue.lease, one row per namespace. Expiry is
// measured against the server's clock so that clients with skewed clocks
// agree on who holds a namespace.

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
		`DELETE FROM syncqueue.lease WHERE expires_at <= CURRENT_TIMESTAMP`,
	)

	err = db.QueryRowContext(
		ctx,
		`INSERT INTO syncqueue.lease (namespace, expires_at)
		VALUES ($1, CURRENT_TIMESTAMP + $2::INTERVAL)
		ON CONFLICT (namespace) DO NOTHING
		RETURNING id`,
		ns,
		interval(ttl),
	).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	default:
		return id, true, nil
	}
}

// RenewLock pushes the expiry of an unexpired lease out to ttl from now.
func (driver) RenewLock(
	ctx context.Context,
	db *sql.DB,
	id int64,
	ttl time.Duration,
) (ok bool, err error) {
	defer sqlx.Recover(&err)

	ok = sqlx.ExecOne(
		ctx,
		db,
		`UPDATE syncqueue.lease
		SET expires_at = CURRENT_TIMESTAMP + $1::INTERVAL
		WHERE id = $2 AND expires_at > CURRENT_TIMESTAMP`,
		interval(ttl),
		id,
	)

	return ok, nil
}

// ReleaseLock gives up a lease. Releasing a lease that has already been
// purged is not an error.
func (driver) ReleaseLock(ctx context.Context, db *sql.DB, id int64) (err error) {
	defer sqlx.Recover(&err)

	sqlx.Exec(ctx, db, `DELETE FROM syncqueue.lease WHERE id = $1`, id)

	return nil
}

// interval formats d as a PostgreSQL interval.
func interval(d time.Duration) string {
	return strconv.FormatInt(d.Microseconds(), 10) + " microseconds"
}

func createLeaseSchema(ctx context.Context, db sqlx.DB) {
	sqlx.Exec(
		ctx,
		db,
		`CREATE TABLE IF NOT EXISTS syncqueue.lease (
			id         BIGSERIAL PRIMARY KEY,
			namespace  TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMP NOT NULL
		)`,
	)
}
