package mlog_test

import (
	"strings"

	. "github.com/fieldpos/syncqueue/internal/mlog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("type Icon", func() {
	Describe("func String()", func() {
		It("returns the icon string", func() {
			Expect(
				OperationIDIcon.String(),
			).To(Equal("="))
		})
	})

	Describe("func WriteTo()", func() {
		It("renders a space for the zero-value", func() {
			w := &strings.Builder{}

			n, err := Icon("").WriteTo(w)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(n).To(BeEquivalentTo(1))
			Expect(w.String()).To(Equal(" "))
		})
	})

	Describe("func WithLabel()", func() {
		It("returns the icon and label", func() {
			Expect(
				DeviceIDIcon.WithLabel("<foo>").String(),
			).To(Equal("⋲ <foo>"))
		})

		It("renders a hyphen in place of an empty label", func() {
			Expect(
				DeviceIDIcon.WithLabel("").String(),
			).To(Equal("⋲ -"))
		})
	})

	Describe("func WithID()", func() {
		It("shortens UUIDs", func() {
			Expect(
				OperationIDIcon.WithID("d2a8a2e4-7b6b-4d1e-9c8e-3f4a5b6c7d8e").String(),
			).To(Equal("= d2a8a2e4"))
		})
	})
})

var _ = Describe("type IconWithLabel", func() {
	Describe("func WriteTo()", func() {
		It("writes the icon and the label", func() {
			w := &strings.Builder{}

			n, err := UploadIcon.WithLabel("<label>").WriteTo(w)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(n).To(BeEquivalentTo(len("▲ <label>")))
			Expect(w.String()).To(Equal("▲ <label>"))
		})
	})
})

var _ = Describe("func ConnectivityIcon()", func() {
	It("returns the online icon when online", func() {
		Expect(ConnectivityIcon(true)).To(Equal(OnlineIcon))
	})

	It("returns the error icon when offline", func() {
		Expect(ConnectivityIcon(false)).To(Equal(ErrorIcon))
	})
})
