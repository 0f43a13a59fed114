package mlog_test

import (
	"errors"

	"github.com/dogmatiq/dodeca/logging"
	. "github.com/fieldpos/syncqueue/internal/mlog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func LogEnqueue()", func() {
	It("logs in the correct format", func() {
		logger := &logging.BufferedLogger{}

		LogEnqueue(logger, "<id>", "<device>", "payment", 2)

		Expect(logger.Messages()).To(ContainElement(
			logging.BufferedLogMessage{
				Message: "= <id>  ⋲ <device>  ▼    payment ● queue depth 2",
			},
		))
	})
})

var _ = Describe("func LogUpload()", func() {
	It("logs in the correct format", func() {
		logger := &logging.BufferedLogger{
			CaptureDebug: true,
		}

		LogUpload(logger, "<id>", "<device>", "payment", 0, 2)

		Expect(logger.Messages()).To(ContainElement(
			logging.BufferedLogMessage{
				Message: "= <id>  ⋲ <device>  ▲    payment ● uploaded 1 of 2",
				IsDebug: true,
			},
		))
	})

	It("does not log if debug logging is disabled", func() {
		logger := &logging.BufferedLogger{}

		LogUpload(logger, "<id>", "<device>", "payment", 0, 2)

		Expect(logger.Messages()).To(BeEmpty())
	})
})

var _ = Describe("func LogUploadError()", func() {
	It("logs in the correct format", func() {
		logger := &logging.BufferedLogger{}

		LogUploadError(logger, "<id>", "", "payment", errors.New("<error>"))

		Expect(logger.Messages()).To(ContainElement(
			logging.BufferedLogMessage{
				Message: "= <id>  ⋲ -  △ ✖  payment ● <error> ● operation remains queued",
			},
		))
	})
})

var _ = Describe("func LogConnectivity()", func() {
	It("logs an online transition", func() {
		logger := &logging.BufferedLogger{}

		LogConnectivity(logger, true, 3)

		Expect(logger.Messages()).To(ContainElement(
			logging.BufferedLogMessage{
				Message: "⚙ ⇅  online ● queue depth 3",
			},
		))
	})

	It("logs an offline transition", func() {
		logger := &logging.BufferedLogger{}

		LogConnectivity(logger, false, 0)

		Expect(logger.Messages()).To(ContainElement(
			logging.BufferedLogMessage{
				Message: "⚙ ✖  offline ● queue depth 0",
			},
		))
	})
})

var _ = Describe("func LogSystem()", func() {
	It("logs in the correct format", func() {
		logger := &logging.BufferedLogger{}

		LogSystem(logger, "loaded %d operation(s)", 4)

		Expect(logger.Messages()).To(ContainElement(
			logging.BufferedLogMessage{
				Message: "⚙    loaded 4 operation(s)",
			},
		))
	})
})

var _ = Describe("func LogSystemError()", func() {
	It("logs in the correct format", func() {
		logger := &logging.BufferedLogger{}

		LogSystemError(logger, errors.New("<error>"), "unable to load queue")

		Expect(logger.Messages()).To(ContainElement(
			logging.BufferedLogMessage{
				Message: "⚙ ✖  unable to load queue ● <error>",
			},
		))
	})
})
