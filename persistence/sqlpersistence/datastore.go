package sqlpersistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dogmatiq/linger"
	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/persistence"
	"go.uber.org/multierr"
)

// lease is a namespace lock held by an open data-store.
type lease struct {
	id  int64
	ttl time.Duration
}

// dataStore is an implementation of persistence.DataStore for SQL databases.
//
// It renews its namespace lock in the background. If the lock is lost the
// data-store behaves as though it has been closed.
type dataStore struct {
	db     *sql.DB
	driver Driver
	ns     string
	lease  lease

	// life is canceled once the lease is no longer renewed. cause is the error
	// reported by operations from then on; it is written before life is
	// canceled.
	life  context.Context
	cause error

	m       sync.Mutex
	stop    context.CancelFunc
	release func() error
}

func newDataStore(
	db *sql.DB,
	d Driver,
	ns string,
	l lease,
	release func() error,
) *dataStore {
	life, kill := context.WithCancel(context.Background())
	renewCtx, stop := context.WithCancel(context.Background())

	ds := &dataStore{
		db:      db,
		driver:  d,
		ns:      ns,
		lease:   l,
		life:    life,
		stop:    stop,
		release: release,
	}

	go func() {
		defer kill()
		ds.cause = ds.renew(renewCtx)
	}()

	return ds
}

func (ds *dataStore) Load(ctx context.Context, k string) (p marshalkit.Packet, ok bool, err error) {
	err = ds.do(ctx, func(ctx context.Context) error {
		p, ok, err = ds.driver.SelectDocument(ctx, ds.db, ds.ns, k)
		return err
	})
	return p, ok, err
}

func (ds *dataStore) Save(ctx context.Context, k string, p marshalkit.Packet) error {
	return ds.do(ctx, func(ctx context.Context) error {
		return ds.driver.UpsertDocument(ctx, ds.db, ds.ns, k, p)
	})
}

func (ds *dataStore) Remove(ctx context.Context, k string) error {
	return ds.do(ctx, func(ctx context.Context) error {
		return ds.driver.DeleteDocument(ctx, ds.db, ds.ns, k)
	})
}

// Close stops renewing the lease, releases it and returns the pool to the
// provider.
func (ds *dataStore) Close() error {
	ds.m.Lock()
	defer ds.m.Unlock()

	if ds.release == nil {
		return persistence.ErrDataStoreClosed
	}

	release := ds.release
	ds.release = nil

	ds.stop()
	<-ds.life.Done()

	// The lease expires after its TTL regardless.
	ctx, cancel := context.WithTimeout(context.Background(), ds.lease.ttl)
	defer cancel()

	return multierr.Append(
		ds.driver.ReleaseLock(ctx, ds.db, ds.lease.id),
		release(),
	)
}

// do calls fn with a context that is also canceled if the data-store closes.
func (ds *dataStore) do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ds.life.Err() != nil {
		return ds.cause
	}

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	unregister := context.AfterFunc(ds.life, cancel)
	defer unregister()

	err := fn(opCtx)

	if err != nil && ctx.Err() == nil && ds.life.Err() != nil {
		return ds.cause
	}

	return err
}

// renew extends the lease every half TTL until ctx is canceled or the lease
// can not be renewed.
//
// It returns the error that operations on the data-store report from then on.
func (ds *dataStore) renew(ctx context.Context) error {
	for {
		ok, err := ds.driver.RenewLock(ctx, ds.db, ds.lease.id, ds.lease.ttl)

		switch {
		case ctx.Err() != nil || errors.Is(err, context.Canceled):
			return persistence.ErrDataStoreClosed
		case err != nil:
			return fmt.Errorf("unable to renew data-store lock: %w", err)
		case !ok:
			return errors.New("unable to renew expired data-store lock")
		}

		if err := linger.Sleep(ctx, ds.lease.ttl/2); err != nil {
			return persistence.ErrDataStoreClosed
		}
	}
}
