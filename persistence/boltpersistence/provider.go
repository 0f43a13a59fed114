package boltpersistence

import (
	"context"
	"os"
	"sync"

	"github.com/fieldpos/syncqueue/internal/x/bboltx"
	"github.com/fieldpos/syncqueue/persistence"
	"go.etcd.io/bbolt"
)

// Provider is an implementation of persistence.Provider for BoltDB that uses an
// existing open database.
type Provider struct {
	provider

	// DB is the BoltDB database to use.
	DB *bbolt.DB
}

// Open returns a data-store for a specific namespace.
//
// Data stores are opened for exclusive use. If the data-store for ns is already
// open, ErrDataStoreLocked is returned.
func (p *Provider) Open(ctx context.Context, ns string) (persistence.DataStore, error) {
	return p.open(
		ctx,
		ns,
		func() (*bbolt.DB, error) {
			return p.DB, nil
		},
		func(*bbolt.DB) error {
			// Don't actually close the database, since we didn't open it.
			return nil
		},
	)
}

// FileProvider is an implementation of persistence.Provider for BoltDB that
// opens a BoltDB database file.
//
// The file is opened when the first data-store is opened, and closed when the
// last open data-store is closed.
type FileProvider struct {
	provider

	// Path is the path to the BoltDB database to open or create.
	Path string

	// Mode is the file mode for the created file.
	// If it is zero, 0600 (owner read/write only) is used.
	Mode os.FileMode

	// Options is the BoltDB options for the database.
	// If it is nil, bbolt.DefaultOptions is used.
	Options *bbolt.Options
}

// Open returns a data-store for a specific namespace.
//
// Data stores are opened for exclusive use. If the data-store for ns is already
// open, ErrDataStoreLocked is returned.
func (p *FileProvider) Open(ctx context.Context, ns string) (persistence.DataStore, error) {
	return p.open(
		ctx,
		ns,
		func() (*bbolt.DB, error) {
			return bboltx.Open(ctx, p.Path, p.Mode, p.Options)
		},
		func(db *bbolt.DB) error {
			return db.Close()
		},
	)
}

// provider is the common implementation of Provider and FileProvider.
type provider struct {
	m          sync.Mutex
	db         *bbolt.DB
	close      func(db *bbolt.DB) error
	namespaces map[string]struct{}
}

// open returns a data-store for a specific namespace.
func (p *provider) open(
	_ context.Context,
	ns string,
	open func() (*bbolt.DB, error),
	close func(db *bbolt.DB) error,
) (persistence.DataStore, error) {
	p.m.Lock()
	defer p.m.Unlock()

	if _, ok := p.namespaces[ns]; ok {
		return nil, persistence.ErrDataStoreLocked
	}

	if p.db == nil {
		db, err := open()
		if err != nil {
			return nil, err
		}

		p.db = db
		p.close = close
	}

	if p.namespaces == nil {
		p.namespaces = map[string]struct{}{}
	}

	p.namespaces[ns] = struct{}{}

	return &dataStore{
		db:        p.db,
		namespace: []byte(ns),
		release:   p.release,
	}, nil
}

// release marks a previously-opened data-store as closed, releasing the lock on
// that namespace.
//
// The database is closed when no data-stores remain open.
func (p *provider) release(ns string) error {
	p.m.Lock()
	defer p.m.Unlock()

	delete(p.namespaces, ns)

	if len(p.namespaces) > 0 {
		return nil
	}

	db := p.db
	close := p.close

	p.db = nil
	p.close = nil

	return close(db)
}
