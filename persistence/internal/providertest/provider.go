package providertest

import (
	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/persistence"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func declareProviderTests(tc *TestContext) {
	ginkgo.Describe("type Provider (interface)", func() {
		var (
			provider persistence.Provider
			packet   marshalkit.Packet
		)

		ginkgo.BeforeEach(func() {
			var close func()
			provider, close = tc.Out.NewProvider()
			if close != nil {
				ginkgo.DeferCleanup(close)
			}

			packet = marshalkit.Packet{
				MediaType: "application/json; type=<type>",
				Data:      []byte(`{"version":1}`),
			}
		})

		ginkgo.Describe("func Open()", func() {
			ginkgo.It("returns an error if the data-store is already open", func() {
				ds, err := provider.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				defer ds.Close()

				_, err = provider.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).To(gomega.Equal(persistence.ErrDataStoreLocked))
			})

			ginkgo.It("allows the data-store to be re-opened after it is closed", func() {
				ds, err := provider.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = ds.Close()
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				ds, err = provider.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				ds.Close()
			})

			ginkgo.It("allows data-stores for different namespaces to be open at the same time", func() {
				ds1, err := provider.Open(tc.Context, "<namespace-1>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				defer ds1.Close()

				ds2, err := provider.Open(tc.Context, "<namespace-2>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				defer ds2.Close()

				gomega.Expect(ds1).ToNot(gomega.BeIdenticalTo(ds2))
			})

			ginkgo.It("retains values after the data-store is re-opened", func() {
				ds, err := provider.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = ds.Save(tc.Context, "<key>", packet)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				ds.Close()

				ds, err = provider.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				defer ds.Close()

				p, ok, err := ds.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(p).To(gomega.Equal(packet))
			})

			ginkgo.It("isolates values in different namespaces", func() {
				ds1, err := provider.Open(tc.Context, "<namespace-1>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				defer ds1.Close()

				ds2, err := provider.Open(tc.Context, "<namespace-2>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				defer ds2.Close()

				err = ds1.Save(tc.Context, "<key>", packet)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				_, ok, err := ds2.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeFalse())
			})

			ginkgo.It("shares values between provider instances that access the same data", func() {
				if !tc.Out.IsShared {
					ginkgo.Skip("provider instances do not share data")
				}

				ds, err := provider.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = ds.Save(tc.Context, "<key>", packet)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				ds.Close()

				other, close := tc.Out.NewProvider()
				if close != nil {
					defer close()
				}

				ds, err = other.Open(tc.Context, tc.In.Namespace)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				defer ds.Close()

				p, ok, err := ds.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(p).To(gomega.Equal(packet))
			})
		})
	})
}
