package persistence

import (
	"context"

	"github.com/dogmatiq/marshalkit"
)

// DataStore is a durable key-value store scoped to a single namespace.
//
// Each value is a marshalkit.Packet, so the media-type of the persisted data is
// stored alongside the data itself.
type DataStore interface {
	// Load returns the packet stored under k.
	//
	// ok is false if there is no value for k.
	Load(ctx context.Context, k string) (p marshalkit.Packet, ok bool, err error)

	// Save stores p under k, replacing any existing value.
	//
	// The value must be durable by the time Save() returns without error.
	Save(ctx context.Context, k string, p marshalkit.Packet) error

	// Remove deletes the value stored under k.
	//
	// It is not an error to remove a key that has no value.
	Remove(ctx context.Context, k string) error

	// Close closes the data store.
	//
	// Closing a data-store causes any future calls to Load(), Save() or
	// Remove() to return ErrDataStoreClosed.
	Close() error
}
