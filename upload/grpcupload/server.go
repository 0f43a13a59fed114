package grpcupload

import (
	"context"
	"errors"

	"github.com/fieldpos/syncqueue"
	"github.com/fieldpos/syncqueue/internal/x/grpcx"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Handler is an interface for accepting uploaded operations on the server.
type Handler interface {
	// HandleOperation accepts an uploaded operation.
	//
	// If it returns a gRPC status error it is passed to the client unchanged.
	// Any other error is reported to the client as an internal error.
	HandleOperation(ctx context.Context, op syncqueue.PendingOperation) error
}

// HandlerFunc is an adaptor that allows an ordinary function to be used as a
// Handler.
type HandlerFunc func(ctx context.Context, op syncqueue.PendingOperation) error

// HandleOperation returns fn(ctx, op).
func (fn HandlerFunc) HandleOperation(ctx context.Context, op syncqueue.PendingOperation) error {
	return fn(ctx, op)
}

// RegisterSyncServiceServer registers h as the SyncService implementation on
// s.
func RegisterSyncServiceServer(s grpc.ServiceRegistrar, h Handler) {
	s.RegisterService(&serviceDesc, h)
}

// handle parses req and dispatches it to h.
func handle(
	ctx context.Context,
	h Handler,
	req *structpb.Struct,
) (*emptypb.Empty, error) {
	op, err := ParseRequest(req)
	if err != nil {
		var ferr *FieldError
		if errors.As(err, &ferr) {
			return nil, grpcx.Errorf(
				codes.InvalidArgument,
				[]proto.Message{
					&errdetails.BadRequest{
						FieldViolations: []*errdetails.BadRequest_FieldViolation{
							{
								Field:       ferr.Field,
								Description: ferr.Description,
							},
						},
					},
				},
				"invalid operation: %s",
				err,
			)
		}

		return nil, grpcx.Errorf(codes.InvalidArgument, nil, "invalid operation: %s", err)
	}

	if err := h.HandleOperation(ctx, op); err != nil {
		if _, ok := status.FromError(err); ok {
			return nil, err
		}

		return nil, grpcx.Errorf(codes.Internal, nil, "unable to handle operation: %s", err)
	}

	return &emptypb.Empty{}, nil
}
