package syncqueue

import "context"

// Uploader is an interface for delivering pending operations to the remote
// system.
type Uploader interface {
	// UploadOperation delivers op to the remote system.
	//
	// It must not return until the remote system has accepted op. Any error
	// is treated as a failure to deliver op.
	UploadOperation(ctx context.Context, op PendingOperation) error
}

// UploaderFunc is an adaptor that allows an ordinary function to be used as
// an Uploader.
type UploaderFunc func(ctx context.Context, op PendingOperation) error

// UploadOperation returns fn(ctx, op).
func (fn UploaderFunc) UploadOperation(ctx context.Context, op PendingOperation) error {
	return fn(ctx, op)
}
