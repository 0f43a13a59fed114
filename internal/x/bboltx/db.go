package bboltx

import (
	"context"
	"errors"
	"os"

	"github.com/dogmatiq/linger"
	"go.etcd.io/bbolt"
)

// DefaultMode is the file mode used when creating a database file if no other
// mode is given.
const DefaultMode os.FileMode = 0600

// Open creates and opens a database at the given path.
//
// If mode is zero, DefaultMode is used.
//
// bbolt acquires an exclusive file lock on the database. If the deadline from
// ctx is sooner than opts.Timeout, the context deadline is used as the lock
// timeout instead, and a timeout is reported as context.DeadlineExceeded.
func Open(
	ctx context.Context,
	path string,
	mode os.FileMode,
	opts *bbolt.Options,
) (*bbolt.DB, error) {
	if mode == 0 {
		mode = DefaultMode
	}

	// A non-positive timeout in the bbolt options means "wait forever", so an
	// already-ended context must be checked explicitly.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if timeout, ok := linger.FromContextDeadline(ctx); ok {
		if opts == nil {
			clone := *bbolt.DefaultOptions
			opts = &clone
			opts.Timeout = timeout
		} else if opts.Timeout == 0 || opts.Timeout > timeout {
			clone := *opts
			opts = &clone
			opts.Timeout = timeout
		}
	}

	db, err := bbolt.Open(path, mode, opts)
	if errors.Is(err, bbolt.ErrTimeout) {
		return nil, context.DeadlineExceeded
	}

	return db, err
}
