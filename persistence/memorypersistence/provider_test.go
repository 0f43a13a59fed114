package memorypersistence_test

import (
	"context"

	"github.com/fieldpos/syncqueue/persistence"
	"github.com/fieldpos/syncqueue/persistence/internal/providertest"
	. "github.com/fieldpos/syncqueue/persistence/memorypersistence"
	. "github.com/onsi/ginkgo/v2"
)

var _ = Describe("type Provider", func() {
	providertest.Declare(
		func(ctx context.Context, in providertest.In) providertest.Out {
			p := &Provider{}

			return providertest.Out{
				NewProvider: func() (persistence.Provider, func()) {
					return p, nil
				},
				IsShared: true,
			}
		},
		nil,
	)
})
