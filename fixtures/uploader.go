package fixtures

import (
	"context"
	"sync"

	"github.com/fieldpos/syncqueue"
)

// UploaderStub is a test implementation of the syncqueue.Uploader interface.
//
// It records every operation it is asked to upload, whether or not the upload
// succeeds.
type UploaderStub struct {
	syncqueue.Uploader

	UploadOperationFunc func(context.Context, syncqueue.PendingOperation) error

	m     sync.Mutex
	calls []syncqueue.PendingOperation
}

// UploadOperation delivers op to the remote system.
func (u *UploaderStub) UploadOperation(
	ctx context.Context,
	op syncqueue.PendingOperation,
) error {
	u.m.Lock()
	u.calls = append(u.calls, op)
	u.m.Unlock()

	if u.UploadOperationFunc != nil {
		return u.UploadOperationFunc(ctx, op)
	}

	if u.Uploader != nil {
		return u.Uploader.UploadOperation(ctx, op)
	}

	return nil
}

// Calls returns the operations passed to UploadOperation(), in order.
func (u *UploaderStub) Calls() []syncqueue.PendingOperation {
	u.m.Lock()
	defer u.m.Unlock()

	return append([]syncqueue.PendingOperation(nil), u.calls...)
}

// Payloads returns the payloads of the operations passed to
// UploadOperation(), in order, as strings.
func (u *UploaderStub) Payloads() []string {
	var payloads []string
	for _, op := range u.Calls() {
		payloads = append(payloads, string(op.Payload))
	}

	return payloads
}
