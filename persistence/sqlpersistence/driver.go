package sqlpersistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/dogmatiq/marshalkit"
)

// Driver adapts the data-store to a specific SQL dialect.
//
// Documents and locks are partitioned by namespace so that several devices, or
// several queues, can share one database.
type Driver interface {
	// IsCompatibleWith returns nil if this driver can be used with db.
	IsCompatibleWith(ctx context.Context, db *sql.DB) error

	// CreateSchema creates the document and lock tables if they do not exist.
	CreateSchema(ctx context.Context, db *sql.DB) error

	// DropSchema removes the tables created by CreateSchema().
	DropSchema(ctx context.Context, db *sql.DB) error

	// SelectDocument returns the packet stored under k, or false if there is
	// none.
	SelectDocument(ctx context.Context, db *sql.DB, ns, k string) (marshalkit.Packet, bool, error)

	// UpsertDocument stores p under k, replacing any existing document.
	UpsertDocument(ctx context.Context, db *sql.DB, ns, k string, p marshalkit.Packet) error

	// DeleteDocument removes the document stored under k, if any.
	DeleteDocument(ctx context.Context, db *sql.DB, ns, k string) error

	// AcquireLock takes the exclusive lock on ns for ttl.
	//
	// It returns the ID of the lock, or false if another holder has an
	// unexpired lock on ns.
	AcquireLock(ctx context.Context, db *sql.DB, ns string, ttl time.Duration) (int64, bool, error)

	// RenewLock extends the lock with the given ID by ttl.
	//
	// It returns false if the lock no longer exists.
	RenewLock(ctx context.Context, db *sql.DB, id int64, ttl time.Duration) (bool, error)

	// ReleaseLock deletes the lock with the given ID.
	ReleaseLock(ctx context.Context, db *sql.DB, id int64) error
}
