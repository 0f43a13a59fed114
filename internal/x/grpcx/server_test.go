package grpcx_test

import (
	"context"
	"time"

	. "github.com/fieldpos/syncqueue/internal/x/grpcx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

var _ = Describe("func Serve()", func() {
	It("stops the server when the context is canceled", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		lis := bufconn.Listen(1024)
		s := grpc.NewServer()

		result := make(chan error, 1)
		go func() {
			result <- Serve(ctx, lis, s)
		}()

		// Dial only succeeds once the server is accepting connections.
		conn, err := lis.Dial()
		Expect(err).ShouldNot(HaveOccurred())
		conn.Close()

		cancel()

		Eventually(result).Should(Receive(Equal(context.Canceled)))
	})

	It("returns an error if the listener is closed", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		lis := bufconn.Listen(1024)
		lis.Close()

		err := Serve(ctx, lis, grpc.NewServer())
		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(Equal(context.Canceled))
	})
})
