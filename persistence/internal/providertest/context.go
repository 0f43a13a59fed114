package providertest

import (
	"context"
	"time"

	"github.com/fieldpos/syncqueue/persistence"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// In is a container for values provided by the test suite to the
// provider-specific initialization code.
type In struct {
	// Namespace is the namespace used when opening data-stores.
	Namespace string
}

// Out is a container for values that are provided by the provider-specific
// initialization code to the test suite.
type Out struct {
	// NewProvider is a function that creates a new provider.
	NewProvider func() (p persistence.Provider, close func())

	// IsShared returns true if multiple instances of the same provider access
	// the same data.
	IsShared bool

	// TestTimeout is the maximum duration allowed for each test.
	TestTimeout time.Duration
}

const (
	// DefaultTestTimeout is the default test timeout.
	DefaultTestTimeout = 10 * time.Second

	// DefaultNamespace is the namespace used by the test suite.
	DefaultNamespace = "<namespace>"
)

// TestContext encapsulates the shared test context passed to the tests for each
// part of the provider.
type TestContext struct {
	Context context.Context
	In      In
	Out     Out
}

// SetupDataStore sets up a new data-store.
//
// The data-store and the provider are closed when the current spec ends.
func (tc *TestContext) SetupDataStore() persistence.DataStore {
	p, close := tc.Out.NewProvider()
	if close != nil {
		ginkgo.DeferCleanup(close)
	}

	ds, err := p.Open(tc.Context, tc.In.Namespace)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

	ginkgo.DeferCleanup(func() {
		ds.Close()
	})

	return ds
}
