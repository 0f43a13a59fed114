package grpcx

import (
	"context"
	"net"

	"google.golang.org/grpc"
)

// Serve accepts connections on lis until ctx is canceled, then stops s.
//
// It returns ctx.Err() after a cancellation, or the error from s.Serve() if
// the server fails first. s must not be stopped by any other means.
func Serve(ctx context.Context, lis net.Listener, s *grpc.Server) error {
	result := make(chan error, 1)

	go func() {
		result <- s.Serve(lis)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		s.Stop()
		<-result
		return ctx.Err()
	}
}
