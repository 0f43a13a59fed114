package syncqueue

import (
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/internal/x/loggingx"
	"go.uber.org/zap"
)

// Option configures the behavior of a queue manager.
type Option func(*managerOptions)

// DefaultStorageKey is the default key under which the queue is persisted.
const DefaultStorageKey = "syncQueue"

// WithStorageKey returns an option that sets the key under which the queue is
// persisted within the data-store.
//
// If this option is omitted or k is empty DefaultStorageKey is used.
func WithStorageKey(k string) Option {
	return func(opts *managerOptions) {
		opts.StorageKey = k
	}
}

// DefaultUploadTimeout is the default maximum time allowed for a single
// operation to be uploaded.
const DefaultUploadTimeout = 30 * time.Second

// WithUploadTimeout returns an option that sets the maximum time allowed for
// a single operation to be uploaded.
//
// A timeout of zero disables the timeout, in which case an upload may block
// for as long as the context passed to Drain() allows.
//
// If this option is omitted DefaultUploadTimeout is used.
func WithUploadTimeout(d time.Duration) Option {
	if d < 0 {
		panic("duration must not be negative")
	}

	return func(opts *managerOptions) {
		opts.UploadTimeout = d
	}
}

// WithDeviceID returns an option that sets the device ID that is attached to
// each operation as it is enqueued.
func WithDeviceID(id string) Option {
	return func(opts *managerOptions) {
		opts.DeviceID = id
	}
}

// Clock is a function that returns the current time.
type Clock func() time.Time

// WithClock returns an option that sets the clock used to timestamp
// operations.
//
// If this option is omitted or c is nil time.Now() is used.
func WithClock(c Clock) Option {
	return func(opts *managerOptions) {
		opts.Clock = c
	}
}

// WithMarshaler returns an option that sets the marshaler used to encode the
// persisted queue.
//
// If this option is omitted or m is nil NewDefaultMarshaler() is called to
// obtain the default marshaler.
func WithMarshaler(m marshalkit.ValueMarshaler) Option {
	return func(opts *managerOptions) {
		opts.Marshaler = m
	}
}

// DefaultLogger is the default target for log messages produced by the
// manager.
var DefaultLogger = logging.DefaultLogger

// WithLogger returns an option that sets the target for log messages produced
// by the manager.
//
// If this option is omitted or l is nil DefaultLogger is used.
func WithLogger(l logging.Logger) Option {
	return func(opts *managerOptions) {
		opts.Logger = l
	}
}

// WithZapLogger returns an option that sends log messages produced by the
// manager to a zap logger.
func WithZapLogger(l *zap.Logger) Option {
	return func(opts *managerOptions) {
		if l == nil {
			opts.Logger = nil
		} else {
			opts.Logger = loggingx.FromZap(l)
		}
	}
}

// managerOptions is a container for a fully-resolved set of manager options.
type managerOptions struct {
	StorageKey    string
	UploadTimeout time.Duration
	DeviceID      string
	Clock         Clock
	Marshaler     marshalkit.ValueMarshaler
	Logger        logging.Logger
}

// resolveOptions returns a fully-populated set of manager options built from
// the given set of option functions.
func resolveOptions(options []Option) *managerOptions {
	opts := &managerOptions{
		UploadTimeout: DefaultUploadTimeout,
	}

	for _, o := range options {
		o(opts)
	}

	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	if opts.Marshaler == nil {
		opts.Marshaler = NewDefaultMarshaler()
	}

	if opts.Logger == nil {
		opts.Logger = DefaultLogger
	}

	return opts
}
