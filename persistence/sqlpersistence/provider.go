package sqlpersistence

import (
	"context"
	"database/sql"
	"runtime"
	"sync"
	"time"

	"github.com/fieldpos/syncqueue/persistence"
)

var (
	// DefaultMaxIdleConns is the number of idle connections kept by a
	// DSNProvider's pool when MaxIdleConns is zero.
	DefaultMaxIdleConns = runtime.GOMAXPROCS(0)

	// DefaultMaxOpenConns is the number of open connections allowed by a
	// DSNProvider's pool when MaxOpenConns is zero.
	DefaultMaxOpenConns = DefaultMaxIdleConns * 10

	// DefaultMaxConnLifetime is the connection lifetime used by a DSNProvider's
	// pool when MaxConnLifetime is zero.
	DefaultMaxConnLifetime = 10 * time.Minute

	// DefaultLockTTL is the lifetime of a namespace lock when LockTTL is zero.
	// Open data-stores renew their lock at half this interval.
	DefaultLockTTL = 10 * time.Second
)

// Provider is an implementation of persistence.Provider that stores queues in
// a database pool owned by the caller.
//
// The pool is never closed by the provider.
type Provider struct {
	// DB is the database pool. The schema must already exist, see
	// CreateSchema().
	DB *sql.DB

	// Driver is the SQL dialect to use. If it is nil, one of the built-in
	// drivers is chosen by probing DB.
	Driver Driver

	// LockTTL overrides DefaultLockTTL.
	LockTTL time.Duration

	shared shared
}

// Open returns the data-store for the ns namespace.
//
// It returns ErrDataStoreLocked if ns is already open, whether by this
// provider or by any other process using the same database.
func (p *Provider) Open(ctx context.Context, ns string) (persistence.DataStore, error) {
	return p.shared.open(ctx, ns, source{
		connect: func() (*sql.DB, error) {
			return p.DB, nil
		},
		disconnect: func(*sql.DB) error {
			return nil
		},
		driver: p.Driver,
		ttl:    p.LockTTL,
	})
}

// DSNProvider is an implementation of persistence.Provider that opens its own
// database pool from a data-source name.
//
// The pool is opened by the first call to Open() and closed when the last
// data-store is closed.
type DSNProvider struct {
	// DriverName and DSN are passed to sql.Open().
	DriverName string
	DSN        string

	// Driver is the SQL dialect to use. If it is nil, one of the built-in
	// drivers is chosen by probing the pool.
	Driver Driver

	// LockTTL overrides DefaultLockTTL.
	LockTTL time.Duration

	// MaxIdleConns, MaxOpenConns and MaxConnLifetime configure the pool. Zero
	// values are replaced by the corresponding package defaults.
	MaxIdleConns    int
	MaxOpenConns    int
	MaxConnLifetime time.Duration

	shared shared
}

// Open returns the data-store for the ns namespace.
//
// It returns ErrDataStoreLocked if ns is already open, whether by this
// provider or by any other process using the same database.
func (p *DSNProvider) Open(ctx context.Context, ns string) (persistence.DataStore, error) {
	return p.shared.open(ctx, ns, source{
		connect:    p.connect,
		disconnect: (*sql.DB).Close,
		driver:     p.Driver,
		ttl:        p.LockTTL,
	})
}

func (p *DSNProvider) connect() (*sql.DB, error) {
	db, err := sql.Open(p.DriverName, p.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(orDefault(p.MaxIdleConns, DefaultMaxIdleConns))
	db.SetMaxOpenConns(orDefault(p.MaxOpenConns, DefaultMaxOpenConns))
	db.SetConnMaxLifetime(orDefault(p.MaxConnLifetime, DefaultMaxConnLifetime))

	return db, nil
}

// source describes how shared obtains and gives up its database pool.
type source struct {
	connect    func() (*sql.DB, error)
	disconnect func(*sql.DB) error
	driver     Driver
	ttl        time.Duration
}

// shared is a database pool that is shared by every data-store opened by the
// same provider.
type shared struct {
	m          sync.Mutex
	db         *sql.DB
	driver     Driver
	disconnect func(*sql.DB) error
	refs       int
}

func (s *shared) open(
	ctx context.Context,
	ns string,
	src source,
) (_ persistence.DataStore, err error) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.db == nil {
		if err := s.connect(ctx, src); err != nil {
			return nil, err
		}
	}

	defer func() {
		if err != nil && s.refs == 0 {
			s.close() // nolint:errcheck
		}
	}()

	ttl := src.ttl
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	id, ok, err := s.driver.AcquireLock(ctx, s.db, ns, ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, persistence.ErrDataStoreLocked
	}

	s.refs++

	return newDataStore(
		s.db,
		s.driver,
		ns,
		lease{id, ttl},
		s.release,
	), nil
}

// connect opens the pool and chooses the driver. s.m must be locked.
func (s *shared) connect(ctx context.Context, src source) error {
	db, err := src.connect()
	if err != nil {
		return err
	}

	d := src.driver
	if d == nil {
		d, err = selectDriver(ctx, db)
		if err != nil {
			src.disconnect(db) // nolint:errcheck
			return err
		}
	}

	s.db = db
	s.driver = d
	s.disconnect = src.disconnect

	return nil
}

// release is called when a data-store is closed.
func (s *shared) release() error {
	s.m.Lock()
	defer s.m.Unlock()

	s.refs--
	if s.refs > 0 {
		return nil
	}

	return s.close()
}

// close gives up the pool. s.m must be locked.
func (s *shared) close() error {
	db, disconnect := s.db, s.disconnect

	s.db = nil
	s.driver = nil
	s.disconnect = nil

	return disconnect(db)
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
