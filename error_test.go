package syncqueue_test

import (
	"errors"

	. "github.com/fieldpos/syncqueue"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("type StorageReadError", func() {
	err := StorageReadError{
		Key:   "<key>",
		Cause: errors.New("<cause>"),
	}

	Describe("func Error()", func() {
		It("includes the key and the cause", func() {
			Expect(err).To(MatchError("unable to read queue from storage key '<key>': <cause>"))
		})
	})

	Describe("func Unwrap()", func() {
		It("returns the cause", func() {
			Expect(errors.Unwrap(err)).To(MatchError("<cause>"))
		})
	})
})

var _ = Describe("type StorageWriteError", func() {
	err := StorageWriteError{
		Key:   "<key>",
		Cause: errors.New("<cause>"),
	}

	Describe("func Error()", func() {
		It("includes the key and the cause", func() {
			Expect(err).To(MatchError("unable to write queue to storage key '<key>': <cause>"))
		})
	})

	Describe("func Unwrap()", func() {
		It("returns the cause", func() {
			Expect(errors.Unwrap(err)).To(MatchError("<cause>"))
		})
	})
})

var _ = Describe("type UploadError", func() {
	cause := errors.New("<cause>")
	err := UploadError{
		Operation: PendingOperation{ID: "<id>"},
		Index:     2,
		Cause:     cause,
	}

	Describe("func Error()", func() {
		It("includes the operation ID, the position and the cause", func() {
			Expect(err).To(MatchError("unable to upload operation <id> at position 2: <cause>"))
		})
	})

	Describe("func Unwrap()", func() {
		It("returns the cause", func() {
			Expect(errors.Is(err, cause)).To(BeTrue())
		})
	})
})

var _ = Describe("type State", func() {
	DescribeTable(
		"func String()",
		func(s State, expect string) {
			Expect(s.String()).To(Equal(expect))
		},
		Entry("empty", StateEmpty, "empty"),
		Entry("pending", StatePending, "pending"),
		Entry("draining", StateDraining, "draining"),
		Entry("unknown", State(99), "State(99)"),
	)
})
