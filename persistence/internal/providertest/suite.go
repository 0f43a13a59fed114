package providertest

import (
	"context"
	"time"

	"github.com/onsi/ginkgo/v2"
)

// Declare declares generic behavioral tests for a specific persistence provider
// implementation.
func Declare(
	before func(context.Context, In) Out,
	after func(),
) {
	var tc TestContext

	ginkgo.Context("standard provider test suite", func() {
		ginkgo.BeforeEach(func() {
			setupCtx, cancelSetup := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelSetup()

			tc.In = In{
				Namespace: DefaultNamespace,
			}

			tc.Out = before(setupCtx, tc.In)

			if tc.Out.TestTimeout <= 0 {
				tc.Out.TestTimeout = DefaultTestTimeout
			}

			ctx, cancel := context.WithTimeout(context.Background(), tc.Out.TestTimeout)
			ginkgo.DeferCleanup(cancel)

			tc.Context = ctx
		})

		ginkgo.AfterEach(func() {
			if after != nil {
				after()
			}
		})

		declareProviderTests(&tc)
		declareDataStoreTests(&tc)
	})
}
