package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrDataStoreClosed is returned when performing any persistence operation
	// on a closed data-store.
	ErrDataStoreClosed = errors.New("data store is closed")

	// ErrDataStoreLocked is returned by Provider.Open() if the namespace's
	// data-store is already open.
	ErrDataStoreLocked = errors.New("data store is locked")
)

// CorruptValueError is returned when a persisted value can not be decoded into
// a packet by the underlying storage engine.
type CorruptValueError struct {
	Key   string
	Cause error
}

// Error returns a string representation of CorruptValueError.
func (e CorruptValueError) Error() string {
	return fmt.Sprintf(
		"value for key '%s' is corrupt: %s",
		e.Key,
		e.Cause,
	)
}

// Unwrap returns the underlying cause of the error.
func (e CorruptValueError) Unwrap() error {
	return e.Cause
}
