package fixtures

import (
	"context"

	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/persistence"
	"github.com/fieldpos/syncqueue/persistence/memorypersistence"
)

// ProviderStub is a test implementation of the persistence.Provider interface.
type ProviderStub struct {
	persistence.Provider

	OpenFunc func(context.Context, string) (persistence.DataStore, error)
}

// Open returns a data-store for a specific namespace.
func (p *ProviderStub) Open(ctx context.Context, ns string) (persistence.DataStore, error) {
	if p.OpenFunc != nil {
		return p.OpenFunc(ctx, ns)
	}

	if p.Provider != nil {
		ds, err := p.Provider.Open(ctx, ns)
		if ds != nil {
			ds = &DataStoreStub{DataStore: ds}
		}
		return ds, err
	}

	return nil, nil
}

// DataStoreStub is a test implementation of the persistence.DataStore
// interface.
type DataStoreStub struct {
	persistence.DataStore

	LoadFunc   func(context.Context, string) (marshalkit.Packet, bool, error)
	SaveFunc   func(context.Context, string, marshalkit.Packet) error
	RemoveFunc func(context.Context, string) error
	CloseFunc  func() error
}

// NewDataStoreStub returns a new data-store stub that uses an in-memory
// persistence provider.
func NewDataStoreStub() *DataStoreStub {
	p := &ProviderStub{
		Provider: &memorypersistence.Provider{},
	}

	ds, err := p.Open(context.Background(), "<namespace>")
	if err != nil {
		panic(err)
	}

	return ds.(*DataStoreStub)
}

// Load returns the packet stored under k.
func (ds *DataStoreStub) Load(
	ctx context.Context,
	k string,
) (marshalkit.Packet, bool, error) {
	if ds.LoadFunc != nil {
		return ds.LoadFunc(ctx, k)
	}

	if ds.DataStore != nil {
		return ds.DataStore.Load(ctx, k)
	}

	return marshalkit.Packet{}, false, nil
}

// Save stores p under k.
func (ds *DataStoreStub) Save(
	ctx context.Context,
	k string,
	p marshalkit.Packet,
) error {
	if ds.SaveFunc != nil {
		return ds.SaveFunc(ctx, k, p)
	}

	if ds.DataStore != nil {
		return ds.DataStore.Save(ctx, k, p)
	}

	return nil
}

// Remove deletes the value stored under k.
func (ds *DataStoreStub) Remove(ctx context.Context, k string) error {
	if ds.RemoveFunc != nil {
		return ds.RemoveFunc(ctx, k)
	}

	if ds.DataStore != nil {
		return ds.DataStore.Remove(ctx, k)
	}

	return nil
}

// Close closes the data store.
func (ds *DataStoreStub) Close() error {
	if ds.CloseFunc != nil {
		return ds.CloseFunc()
	}

	if ds.DataStore != nil {
		return ds.DataStore.Close()
	}

	return nil
}
