package memorypersistence

import (
	"context"
	"sync"

	"github.com/fieldpos/syncqueue/persistence"
)

// Provider is an implementation of persistence.Provider that stores queued
// operations in memory.
//
// Values survive a data-store being closed and re-opened from the same
// provider, but not the process exiting.
type Provider struct {
	m         sync.Mutex
	databases map[string]*database
}

// Open returns a data-store for a specific namespace.
//
// Data stores are opened for exclusive use. If the data-store for ns is already
// open, ErrDataStoreLocked is returned.
func (p *Provider) Open(_ context.Context, ns string) (persistence.DataStore, error) {
	p.m.Lock()
	defer p.m.Unlock()

	if p.databases == nil {
		p.databases = map[string]*database{}
	}

	db, ok := p.databases[ns]

	if !ok {
		db = newDatabase()
		p.databases[ns] = db
	}

	if db.TryOpen() {
		return newDataStore(db), nil
	}

	return nil, persistence.ErrDataStoreLocked
}
