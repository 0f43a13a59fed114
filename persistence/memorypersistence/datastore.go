package memorypersistence

import (
	"context"
	"sync"

	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/persistence"
)

// dataStore is an implementation of persistence.DataStore for the in-memory
// persistence provider.
type dataStore struct {
	m  sync.RWMutex
	db *database
}

func newDataStore(db *database) *dataStore {
	return &dataStore{db: db}
}

// Load returns the packet stored under k.
func (ds *dataStore) Load(
	ctx context.Context,
	k string,
) (marshalkit.Packet, bool, error) {
	ds.m.RLock()
	defer ds.m.RUnlock()

	if ds.db == nil {
		return marshalkit.Packet{}, false, persistence.ErrDataStoreClosed
	}

	if err := ctx.Err(); err != nil {
		return marshalkit.Packet{}, false, err
	}

	ds.db.mutex.RLock()
	defer ds.db.mutex.RUnlock()

	p, ok := ds.db.values[k]
	return clonePacket(p), ok, nil
}

// Save stores p under k, replacing any existing value.
func (ds *dataStore) Save(
	ctx context.Context,
	k string,
	p marshalkit.Packet,
) error {
	ds.m.RLock()
	defer ds.m.RUnlock()

	if ds.db == nil {
		return persistence.ErrDataStoreClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	ds.db.mutex.Lock()
	defer ds.db.mutex.Unlock()

	ds.db.values[k] = clonePacket(p)

	return nil
}

// Remove deletes the value stored under k.
func (ds *dataStore) Remove(ctx context.Context, k string) error {
	ds.m.RLock()
	defer ds.m.RUnlock()

	if ds.db == nil {
		return persistence.ErrDataStoreClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	ds.db.mutex.Lock()
	defer ds.db.mutex.Unlock()

	delete(ds.db.values, k)

	return nil
}

// Close closes the data store.
func (ds *dataStore) Close() error {
	ds.m.Lock()
	defer ds.m.Unlock()

	if ds.db == nil {
		return persistence.ErrDataStoreClosed
	}

	ds.db.Close()
	ds.db = nil

	return nil
}

// clonePacket returns a deep copy of p, so that callers can not modify the
// persisted data.
func clonePacket(p marshalkit.Packet) marshalkit.Packet {
	if p.Data != nil {
		p.Data = append([]byte(nil), p.Data...)
	}

	return p
}
