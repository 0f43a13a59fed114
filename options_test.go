package syncqueue

import (
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/dogmatiq/marshalkit/codec"
	"github.com/dogmatiq/marshalkit/codec/json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("type Option", func() {
	Describe("func WithStorageKey()", func() {
		It("sets the storage key", func() {
			opts := resolveOptions([]Option{
				WithStorageKey("<key>"),
			})

			Expect(opts.StorageKey).To(Equal("<key>"))
		})

		It("uses the default if the key is empty", func() {
			opts := resolveOptions([]Option{
				WithStorageKey(""),
			})

			Expect(opts.StorageKey).To(Equal(DefaultStorageKey))
		})
	})

	Describe("func WithUploadTimeout()", func() {
		It("sets the upload timeout", func() {
			opts := resolveOptions([]Option{
				WithUploadTimeout(10 * time.Minute),
			})

			Expect(opts.UploadTimeout).To(Equal(10 * time.Minute))
		})

		It("allows the timeout to be disabled", func() {
			opts := resolveOptions([]Option{
				WithUploadTimeout(0),
			})

			Expect(opts.UploadTimeout).To(BeZero())
		})

		It("uses the default if the option is omitted", func() {
			opts := resolveOptions(nil)

			Expect(opts.UploadTimeout).To(Equal(DefaultUploadTimeout))
		})

		It("panics if the duration is negative", func() {
			Expect(func() {
				WithUploadTimeout(-1)
			}).To(PanicWith("duration must not be negative"))
		})
	})

	Describe("func WithDeviceID()", func() {
		It("sets the device ID", func() {
			opts := resolveOptions([]Option{
				WithDeviceID("<device>"),
			})

			Expect(opts.DeviceID).To(Equal("<device>"))
		})
	})

	Describe("func WithClock()", func() {
		It("sets the clock", func() {
			now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

			opts := resolveOptions([]Option{
				WithClock(func() time.Time { return now }),
			})

			Expect(opts.Clock()).To(Equal(now))
		})

		It("uses the system clock if the clock is nil", func() {
			opts := resolveOptions([]Option{
				WithClock(nil),
			})

			Expect(opts.Clock()).To(BeTemporally("~", time.Now(), time.Second))
		})
	})

	Describe("func WithMarshaler()", func() {
		It("sets the marshaler", func() {
			m, err := codec.NewMarshaler(nil, []codec.Codec{&json.Codec{}})
			Expect(err).ShouldNot(HaveOccurred())

			opts := resolveOptions([]Option{
				WithMarshaler(m),
			})

			Expect(opts.Marshaler).To(BeIdenticalTo(m))
		})

		It("constructs a default marshaler if the marshaler is nil", func() {
			opts := resolveOptions([]Option{
				WithMarshaler(nil),
			})

			Expect(opts.Marshaler).NotTo(BeNil())
		})
	})

	Describe("func WithLogger()", func() {
		It("sets the logger", func() {
			logger := &logging.BufferedLogger{}

			opts := resolveOptions([]Option{
				WithLogger(logger),
			})

			Expect(opts.Logger).To(BeIdenticalTo(logger))
		})

		It("uses the default if the logger is nil", func() {
			opts := resolveOptions([]Option{
				WithLogger(nil),
			})

			Expect(opts.Logger).To(Equal(DefaultLogger))
		})
	})

	Describe("func WithZapLogger()", func() {
		It("adapts the zap logger", func() {
			opts := resolveOptions([]Option{
				WithZapLogger(zap.NewNop()),
			})

			Expect(opts.Logger).NotTo(Equal(DefaultLogger))
			Expect(opts.Logger.IsDebug()).To(BeFalse())
		})

		It("uses the default if the logger is nil", func() {
			opts := resolveOptions([]Option{
				WithZapLogger(nil),
			})

			Expect(opts.Logger).To(Equal(DefaultLogger))
		})
	})
})
