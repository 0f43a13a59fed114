package grpcupload_test

import (
	"time"

	"github.com/fieldpos/syncqueue"
	"github.com/fieldpos/syncqueue/internal/x/gomegax"
	. "github.com/fieldpos/syncqueue/upload/grpcupload"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ = Describe("func NewRequest()", func() {
	var op syncqueue.PendingOperation

	BeforeEach(func() {
		op = syncqueue.PendingOperation{
			ID:        "<id>",
			DeviceID:  "<device>",
			Type:      "payment",
			Payload:   []byte(`{"amount":50}`),
			Timestamp: time.UnixMilli(1714564800000),
		}
	})

	It("embeds a JSON payload as a structured value", func() {
		req, err := NewRequest(op)
		Expect(err).ShouldNot(HaveOccurred())

		expect, err := structpb.NewStruct(map[string]interface{}{
			"id":        "<id>",
			"device_id": "<device>",
			"type":      "payment",
			"timestamp": 1714564800000.0,
			"payload": map[string]interface{}{
				"amount": 50.0,
			},
		})
		Expect(err).ShouldNot(HaveOccurred())

		Expect(req).To(gomegax.EqualX(expect))
	})

	It("sends a non-JSON payload as base64", func() {
		op.Payload = []byte{0xff, 0x00}

		req, err := NewRequest(op)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(req.GetFields()).NotTo(HaveKey("payload"))
		Expect(req.GetFields()["payload_bytes"].GetStringValue()).To(Equal("/wA="))
	})
})

var _ = Describe("func ParseRequest()", func() {
	It("returns the operation described by the request", func() {
		op := syncqueue.PendingOperation{
			ID:        "<id>",
			DeviceID:  "<device>",
			Type:      "payment",
			Payload:   []byte{0xff, 0x00},
			Timestamp: time.UnixMilli(1714564800000),
		}

		req, err := NewRequest(op)
		Expect(err).ShouldNot(HaveOccurred())

		parsed, err := ParseRequest(req)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(parsed).To(gomegax.EqualX(op))
	})

	It("re-encodes a structured payload as JSON", func() {
		req, err := NewRequest(syncqueue.PendingOperation{
			ID:      "<id>",
			Payload: []byte(`{ "amount": 75 }`),
		})
		Expect(err).ShouldNot(HaveOccurred())

		parsed, err := ParseRequest(req)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(string(parsed.Payload)).To(MatchJSON(`{"amount":75}`))
	})

	It("leaves the payload empty if the request has a null payload", func() {
		req, err := NewRequest(syncqueue.PendingOperation{ID: "<id>"})
		Expect(err).ShouldNot(HaveOccurred())

		parsed, err := ParseRequest(req)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(parsed.Payload).To(BeEmpty())
	})

	DescribeTable(
		"it returns a FieldError if the request is invalid",
		func(fields map[string]interface{}, field, description string) {
			req, err := structpb.NewStruct(fields)
			Expect(err).ShouldNot(HaveOccurred())

			_, err = ParseRequest(req)
			Expect(err).To(Equal(&FieldError{
				Field:       field,
				Description: description,
			}))
		},
		Entry(
			"missing ID",
			map[string]interface{}{"timestamp": 1.0},
			"id", "is required",
		),
		Entry(
			"empty ID",
			map[string]interface{}{"id": "", "timestamp": 1.0},
			"id", "must not be empty",
		),
		Entry(
			"non-string type",
			map[string]interface{}{"id": "<id>", "type": 1.0, "timestamp": 1.0},
			"type", "must be a string",
		),
		Entry(
			"missing timestamp",
			map[string]interface{}{"id": "<id>"},
			"timestamp", "must be a number",
		),
		Entry(
			"non-string payload bytes",
			map[string]interface{}{"id": "<id>", "timestamp": 1.0, "payload_bytes": true},
			"payload_bytes", "must be a base64 string",
		),
	)
})
