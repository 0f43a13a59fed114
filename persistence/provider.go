package persistence

import (
	"context"
)

// Provider is an interface used by the sync queue to obtain data-stores for
// persisting queued operations.
type Provider interface {
	// Open returns a data-store for a specific namespace.
	//
	// ns is typically the identity of the device or user that owns the queue.
	//
	// Data stores are opened for exclusive use. If the data-store for ns is
	// already open, ErrDataStoreLocked is returned.
	Open(ctx context.Context, ns string) (DataStore, error)
}
