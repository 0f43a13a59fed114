package grpcupload

import (
	"context"

	"github.com/fieldpos/syncqueue"
	"google.golang.org/grpc"
)

// Uploader is an implementation of syncqueue.Uploader that sends each
// operation to a remote SyncService.
type Uploader struct {
	// Conn is the connection to the server that hosts the SyncService.
	Conn grpc.ClientConnInterface

	// CallOptions are passed to each call.
	CallOptions []grpc.CallOption
}

var _ syncqueue.Uploader = (*Uploader)(nil)

// UploadOperation sends op to the server.
//
// Errors produced by the server are returned as gRPC status errors.
func (u *Uploader) UploadOperation(ctx context.Context, op syncqueue.PendingOperation) error {
	req, err := NewRequest(op)
	if err != nil {
		return err
	}

	return invoke(ctx, u.Conn, req, u.CallOptions...)
}
