package boltpersistence

import (
	"context"
	"errors"
	"sync"

	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/internal/x/bboltx"
	"github.com/fieldpos/syncqueue/persistence"
	"go.etcd.io/bbolt"
)

var (
	// mediaTypeKey is the key within a value's bucket that holds the packet's
	// media-type.
	mediaTypeKey = []byte("media-type")

	// dataKey is the key within a value's bucket that holds the packet's data.
	dataKey = []byte("data")
)

// dataStore is an implementation of persistence.DataStore for BoltDB.
//
// Each namespace has a root bucket. Within it, each key has a child bucket
// containing the media-type and the data of the stored packet.
type dataStore struct {
	db        *bbolt.DB
	namespace []byte

	m       sync.RWMutex
	release func(string) error
}

// Load returns the packet stored under k.
func (ds *dataStore) Load(
	ctx context.Context,
	k string,
) (_ marshalkit.Packet, _ bool, err error) {
	defer bboltx.Recover(&err)

	ds.m.RLock()
	defer ds.m.RUnlock()

	if ds.release == nil {
		return marshalkit.Packet{}, false, persistence.ErrDataStoreClosed
	}

	if err := ctx.Err(); err != nil {
		return marshalkit.Packet{}, false, err
	}

	var (
		packet marshalkit.Packet
		ok     bool
	)

	bboltx.View(
		ds.db,
		func(tx *bbolt.Tx) {
			b := bboltx.Bucket(tx, ds.namespace, []byte(k))
			if b == nil {
				return
			}

			data := b.Get(dataKey)
			if data == nil {
				bboltx.Must(persistence.CorruptValueError{
					Key:   k,
					Cause: errors.New("data is missing"),
				})
			}

			// Values returned by bbolt are only valid for the life of the
			// transaction.
			packet.MediaType = string(b.Get(mediaTypeKey))
			packet.Data = append([]byte{}, data...)
			ok = true
		},
	)

	return packet, ok, nil
}

// Save stores p under k, replacing any existing value.
func (ds *dataStore) Save(
	ctx context.Context,
	k string,
	p marshalkit.Packet,
) (err error) {
	defer bboltx.Recover(&err)

	ds.m.RLock()
	defer ds.m.RUnlock()

	if ds.release == nil {
		return persistence.ErrDataStoreClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	bboltx.Update(
		ds.db,
		func(tx *bbolt.Tx) {
			b := bboltx.CreateBucketIfNotExists(tx, ds.namespace, []byte(k))
			bboltx.Put(b, mediaTypeKey, []byte(p.MediaType))
			bboltx.Put(b, dataKey, append([]byte{}, p.Data...))
		},
	)

	return nil
}

// Remove deletes the value stored under k.
func (ds *dataStore) Remove(ctx context.Context, k string) (err error) {
	defer bboltx.Recover(&err)

	ds.m.RLock()
	defer ds.m.RUnlock()

	if ds.release == nil {
		return persistence.ErrDataStoreClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	bboltx.Update(
		ds.db,
		func(tx *bbolt.Tx) {
			if root := bboltx.Bucket(tx, ds.namespace); root != nil {
				bboltx.DeleteBucket(root, []byte(k))
			}
		},
	)

	return nil
}

// Close closes the data store.
//
// Closing a data-store causes any future calls to Load(), Save() or Remove() to
// return ErrDataStoreClosed. Close() blocks until any in-flight calls return.
func (ds *dataStore) Close() error {
	ds.m.Lock()
	defer ds.m.Unlock()

	if ds.release == nil {
		return persistence.ErrDataStoreClosed
	}

	r := ds.release
	ds.db = nil
	ds.release = nil

	return r(string(ds.namespace))
}
