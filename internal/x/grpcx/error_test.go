package grpcx_test

import (
	. "github.com/fieldpos/syncqueue/internal/x/grpcx"
	"github.com/fieldpos/syncqueue/internal/x/gomegax"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

var _ = Describe("func Errorf()", func() {
	It("returns a status error with the given code and message", func() {
		err := Errorf(codes.InvalidArgument, nil, "<message %d>", 1)

		s, ok := status.FromError(err)
		Expect(ok).To(BeTrue())
		Expect(s.Code()).To(Equal(codes.InvalidArgument))
		Expect(s.Message()).To(Equal("<message 1>"))
		Expect(s.Details()).To(BeEmpty())
	})

	It("attaches the detail messages", func() {
		detail := &errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{
				{Field: "<field>", Description: "<description>"},
			},
		}

		err := Errorf(codes.InvalidArgument, []proto.Message{detail}, "<message>")

		s, _ := status.FromError(err)
		Expect(s.Details()).To(HaveLen(1))
		Expect(s.Details()[0]).To(gomegax.EqualX(detail))
	})
})
