// Package grpcx contains helpers for gRPC servers.
package grpcx

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/runtime/protoiface"
	"google.golang.org/protobuf/runtime/protoimpl"
)

// Errorf returns a gRPC status error with the given code and message.
//
// details are attached to the status, for example an errdetails.BadRequest
// describing which request fields are invalid.
func Errorf(
	code codes.Code,
	details []proto.Message,
	f string,
	v ...any,
) error {
	s := status.Newf(code, f, v...)
	if len(details) == 0 {
		return s.Err()
	}

	attach := make([]protoiface.MessageV1, 0, len(details))
	for _, m := range details {
		attach = append(attach, protoimpl.X.ProtoMessageV1Of(m))
	}

	s, err := s.WithDetails(attach...)
	if err != nil {
		panic(fmt.Sprintf("grpcx: unable to attach error details: %s", err))
	}

	return s.Err()
}
