package loggingx_test

import (
	"github.com/dogmatiq/dodeca/logging"
	. "github.com/fieldpos/syncqueue/internal/x/loggingx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("func WithPrefix()", func() {
	var target *logging.BufferedLogger

	BeforeEach(func() {
		target = &logging.BufferedLogger{
			CaptureDebug: true,
		}
	})

	It("prefixes formatted messages", func() {
		logger := WithPrefix(target, "[%s] ", "queue")
		logger.Log("depth %d", 3)

		Expect(target.Messages()).To(ConsistOf(
			logging.BufferedLogMessage{
				Message: "[queue] depth 3",
			},
		))
	})

	It("does not interpret percent signs in the prefix", func() {
		logger := WithPrefix(target, "100%% ")
		logger.Debug("<%s>", "value")
		logger.DebugString("<string>")

		Expect(target.Messages()).To(ConsistOf(
			logging.BufferedLogMessage{
				Message: "100% <value>",
				IsDebug: true,
			},
			logging.BufferedLogMessage{
				Message: "100% <string>",
				IsDebug: true,
			},
		))
	})

	It("returns the target if the prefix is empty", func() {
		Expect(WithPrefix(target, "")).To(BeIdenticalTo(target))
	})

	It("reports the debug state of the target", func() {
		logger := WithPrefix(&logging.BufferedLogger{}, "<prefix> ")
		Expect(logger.IsDebug()).To(BeFalse())
	})
})
