package httpupload_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/fieldpos/syncqueue"
	. "github.com/fieldpos/syncqueue/upload/httpupload"
	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// received is a request captured by the test server.
type received struct {
	Header http.Header
	Body   string
}

var _ = Describe("type Uploader", func() {
	var (
		ctx      context.Context
		m        sync.Mutex
		requests []received
		status   int
		server   *httptest.Server
		uploader *Uploader
		op       syncqueue.PendingOperation
	)

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		DeferCleanup(cancel)

		requests = nil
		status = http.StatusAccepted

		r := chi.NewRouter()
		r.Post("/sync", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)

			m.Lock()
			requests = append(requests, received{r.Header.Clone(), string(body)})
			code := status
			m.Unlock()

			w.WriteHeader(code)
			if code >= 400 {
				io.WriteString(w, "<reason>\n")
			}
		})
		release := make(chan struct{})
		r.Post("/slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		})

		server = httptest.NewServer(r)
		DeferCleanup(server.Close)
		DeferCleanup(func() {
			close(release)
			server.CloseClientConnections()
		})

		uploader = &Uploader{
			Endpoint: server.URL + "/sync",
			Client:   server.Client(),
			Header: http.Header{
				"Authorization": {"Bearer <token>"},
			},
		}

		op = syncqueue.PendingOperation{
			ID:        "<id>",
			DeviceID:  "<device>",
			Type:      "payment",
			Payload:   []byte(`{"amount":50}`),
			Timestamp: time.UnixMilli(1714564800000),
		}
	})

	Describe("func UploadOperation()", func() {
		It("posts the payload to the endpoint", func() {
			err := uploader.UploadOperation(ctx, op)
			Expect(err).ShouldNot(HaveOccurred())

			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Body).To(Equal(`{"amount":50}`))
		})

		It("sends the operation's metadata as headers", func() {
			err := uploader.UploadOperation(ctx, op)
			Expect(err).ShouldNot(HaveOccurred())

			h := requests[0].Header
			Expect(h.Get("Content-Type")).To(Equal(DefaultContentType))
			Expect(h.Get(IdempotencyKeyHeader)).To(Equal("<id>"))
			Expect(h.Get(OperationTypeHeader)).To(Equal("payment"))
			Expect(h.Get(OperationTimestampHeader)).To(Equal("1714564800000"))
			Expect(h.Get(DeviceIDHeader)).To(Equal("<device>"))
			Expect(h.Get("Authorization")).To(Equal("Bearer <token>"))
		})

		It("omits optional headers that are empty", func() {
			op.Type = ""
			op.DeviceID = ""

			err := uploader.UploadOperation(ctx, op)
			Expect(err).ShouldNot(HaveOccurred())

			h := requests[0].Header
			Expect(h.Values(OperationTypeHeader)).To(BeEmpty())
			Expect(h.Values(DeviceIDHeader)).To(BeEmpty())
		})

		It("uses the configured content type", func() {
			uploader.ContentType = "application/vnd.fieldpos+json"

			err := uploader.UploadOperation(ctx, op)
			Expect(err).ShouldNot(HaveOccurred())

			Expect(requests[0].Header.Get("Content-Type")).To(Equal("application/vnd.fieldpos+json"))
		})

		It("returns a StatusError if the endpoint rejects the operation", func() {
			status = http.StatusUnprocessableEntity

			err := uploader.UploadOperation(ctx, op)

			var serr *StatusError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(serr.Body).To(Equal("<reason>"))
			Expect(err).To(MatchError("upload rejected with status 422 Unprocessable Entity: <reason>"))
		})

		It("returns an error if the endpoint can not be reached", func() {
			server.Close()

			err := uploader.UploadOperation(ctx, op)
			Expect(err).To(HaveOccurred())
		})

		It("returns an error if the context deadline is exceeded", func() {
			uploader.Endpoint = server.URL + "/slow"

			ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			defer cancel()

			err := uploader.UploadOperation(ctx, op)
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
		})
	})
})

var _ = Describe("type StatusError", func() {
	It("omits the body if it is empty", func() {
		err := &StatusError{StatusCode: http.StatusInternalServerError}
		Expect(err).To(MatchError("upload rejected with status 500 Internal Server Error"))
	})
})
