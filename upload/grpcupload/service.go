// Package grpcupload delivers pending operations to a remote system using
// gRPC.
//
// Operations are sent as google.protobuf.Struct messages to the
// fieldpos.sync.v1.SyncService/UploadOperation method, which returns
// google.protobuf.Empty.
package grpcupload

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully-qualified name of the sync service.
	ServiceName = "fieldpos.sync.v1.SyncService"

	// UploadOperationMethod is the full name of the method used to upload an
	// operation.
	UploadOperationMethod = "/" + ServiceName + "/UploadOperation"
)

// serviceDesc describes the sync service to the gRPC server.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Handler)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "UploadOperation",
			Handler:    uploadOperationHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fieldpos/sync/v1/sync.proto",
}

// uploadOperationHandler is the gRPC method handler for UploadOperation.
func uploadOperationHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}

	call := func(ctx context.Context, req interface{}) (interface{}, error) {
		return handle(ctx, srv.(Handler), req.(*structpb.Struct))
	}

	if interceptor == nil {
		return call(ctx, req)
	}

	return interceptor(
		ctx,
		req,
		&grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: UploadOperationMethod,
		},
		call,
	)
}

// invoke calls the UploadOperation method on the remote server.
func invoke(
	ctx context.Context,
	conn grpc.ClientConnInterface,
	req *structpb.Struct,
	opts ...grpc.CallOption,
) error {
	return conn.Invoke(
		ctx,
		UploadOperationMethod,
		req,
		&emptypb.Empty{},
		opts...,
	)
}
