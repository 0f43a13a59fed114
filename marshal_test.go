package syncqueue

import (
	"time"

	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/internal/x/gomegax"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func marshalQueue()", func() {
	It("encodes the queue as a versioned JSON document", func() {
		m := NewDefaultMarshaler()

		p, err := marshalQueue(m, []PendingOperation{
			{
				ID:        "<id>",
				DeviceID:  "<device>",
				Type:      "payment",
				Payload:   []byte(`{"amount":50}`),
				Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			},
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.MediaType).To(HavePrefix("application/json"))
		Expect(string(p.Data)).To(MatchJSON(`{
			"version": 1,
			"operations": [
				{
					"id": "<id>",
					"device_id": "<device>",
					"type": "payment",
					"payload": "eyJhbW91bnQiOjUwfQ==",
					"timestamp": 1714564800000
				}
			]
		}`))
	})
})

var _ = Describe("func unmarshalQueue()", func() {
	var m marshalkit.Marshaler

	BeforeEach(func() {
		m = NewDefaultMarshaler()
	})

	It("decodes a queue produced by marshalQueue()", func() {
		ops := []PendingOperation{
			{
				ID:        "<id-1>",
				Type:      "payment",
				Payload:   []byte(`{"amount":50}`),
				Timestamp: time.UnixMilli(1714564800000),
			},
			{
				ID:        "<id-2>",
				Type:      "payment",
				Payload:   []byte(`{"amount":75}`),
				Timestamp: time.UnixMilli(1714564800001),
			},
		}

		p, err := marshalQueue(m, ops)
		Expect(err).ShouldNot(HaveOccurred())

		decoded, err := unmarshalQueue(m, p)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(decoded).To(gomegax.EqualX(ops))
	})

	It("returns an error if the document version is not supported", func() {
		p, err := marshalQueue(m, nil)
		Expect(err).ShouldNot(HaveOccurred())

		p.Data = []byte(`{"version": 2, "operations": []}`)

		_, err = unmarshalQueue(m, p)
		Expect(err).To(MatchError("unsupported document version 2"))
	})

	It("returns an error if the data is not valid JSON", func() {
		p, err := marshalQueue(m, nil)
		Expect(err).ShouldNot(HaveOccurred())

		p.Data = []byte(`<not json>`)

		_, err = unmarshalQueue(m, p)
		Expect(err).To(HaveOccurred())
	})

	It("returns an error if the media type is not recognized", func() {
		_, err := unmarshalQueue(m, marshalkit.Packet{
			MediaType: "application/x-unknown",
			Data:      []byte(`{}`),
		})
		Expect(err).To(HaveOccurred())
	})
})
