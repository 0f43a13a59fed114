package syncqueue

import (
	"errors"
	"fmt"
)

// ErrDrainInProgress is returned by Manager.Drain() if another drain is
// already uploading operations.
var ErrDrainInProgress = errors.New("a drain is already in progress")

// StorageReadError indicates that the persisted queue could not be read or
// decoded.
//
// Manager.Load() recovers from this error by starting with an empty queue.
type StorageReadError struct {
	Key   string
	Cause error
}

// Error returns a string representation of StorageReadError.
func (e StorageReadError) Error() string {
	return fmt.Sprintf(
		"unable to read queue from storage key '%s': %s",
		e.Key,
		e.Cause,
	)
}

// Unwrap returns the underlying cause of the error.
func (e StorageReadError) Unwrap() error {
	return e.Cause
}

// StorageWriteError indicates that the queue could not be persisted.
//
// When this error is returned the in-memory queue is left unchanged.
type StorageWriteError struct {
	Key   string
	Cause error
}

// Error returns a string representation of StorageWriteError.
func (e StorageWriteError) Error() string {
	return fmt.Sprintf(
		"unable to write queue to storage key '%s': %s",
		e.Key,
		e.Cause,
	)
}

// Unwrap returns the underlying cause of the error.
func (e StorageWriteError) Unwrap() error {
	return e.Cause
}

// UploadError indicates that an operation could not be uploaded.
//
// When this error is returned every pending operation, including Operation, is
// still queued.
type UploadError struct {
	// Operation is the operation that failed to upload.
	Operation PendingOperation

	// Index is the position of Operation within the queue.
	Index int

	// Cause is the error returned by the uploader.
	Cause error
}

// Error returns a string representation of UploadError.
func (e UploadError) Error() string {
	return fmt.Sprintf(
		"unable to upload operation %s at position %d: %s",
		e.Operation.ID,
		e.Index,
		e.Cause,
	)
}

// Unwrap returns the underlying cause of the error.
func (e UploadError) Unwrap() error {
	return e.Cause
}
