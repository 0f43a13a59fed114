package providertest

import (
	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/persistence"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func declareDataStoreTests(tc *TestContext) {
	ginkgo.Describe("type DataStore (interface)", func() {
		var (
			dataStore persistence.DataStore
			packet1   marshalkit.Packet
			packet2   marshalkit.Packet
		)

		ginkgo.BeforeEach(func() {
			dataStore = tc.SetupDataStore()

			packet1 = marshalkit.Packet{
				MediaType: "application/json; type=<type>",
				Data:      []byte(`{"version":1,"operations":[]}`),
			}

			packet2 = marshalkit.Packet{
				MediaType: "application/json; type=<other-type>",
				Data:      []byte(`{"version":2}`),
			}
		})

		ginkgo.Describe("func Load()", func() {
			ginkgo.It("returns false if there is no value for the key", func() {
				_, ok, err := dataStore.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeFalse())
			})

			ginkgo.It("returns the saved packet", func() {
				err := dataStore.Save(tc.Context, "<key>", packet1)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				p, ok, err := dataStore.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(p).To(gomega.Equal(packet1))
			})

			ginkgo.It("does not allow the persisted data to be modified via the returned packet", func() {
				err := dataStore.Save(tc.Context, "<key>", packet1)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				p, _, err := dataStore.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				p.Data[0] = 'X'

				p, _, err = dataStore.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(p).To(gomega.Equal(packet1))
			})
		})

		ginkgo.Describe("func Save()", func() {
			ginkgo.It("replaces the existing value", func() {
				err := dataStore.Save(tc.Context, "<key>", packet1)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = dataStore.Save(tc.Context, "<key>", packet2)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				p, ok, err := dataStore.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(p).To(gomega.Equal(packet2))
			})

			ginkgo.It("does not affect other keys", func() {
				err := dataStore.Save(tc.Context, "<key-1>", packet1)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = dataStore.Save(tc.Context, "<key-2>", packet2)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				p, ok, err := dataStore.Load(tc.Context, "<key-1>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(p).To(gomega.Equal(packet1))
			})
		})

		ginkgo.Describe("func Remove()", func() {
			ginkgo.It("removes the value", func() {
				err := dataStore.Save(tc.Context, "<key>", packet1)
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = dataStore.Remove(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				_, ok, err := dataStore.Load(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
				gomega.Expect(ok).To(gomega.BeFalse())
			})

			ginkgo.It("does not return an error if there is no value for the key", func() {
				err := dataStore.Remove(tc.Context, "<key>")
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			})
		})

		ginkgo.Describe("func Close()", func() {
			ginkgo.It("returns an error if the data-store is already closed", func() {
				err := dataStore.Close()
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = dataStore.Close()
				gomega.Expect(err).To(gomega.Equal(persistence.ErrDataStoreClosed))
			})

			ginkgo.It("prevents values from being loaded", func() {
				err := dataStore.Close()
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				_, _, err = dataStore.Load(tc.Context, "<key>")
				gomega.Expect(err).To(gomega.Equal(persistence.ErrDataStoreClosed))
			})

			ginkgo.It("prevents values from being saved", func() {
				err := dataStore.Close()
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = dataStore.Save(tc.Context, "<key>", packet1)
				gomega.Expect(err).To(gomega.Equal(persistence.ErrDataStoreClosed))
			})

			ginkgo.It("prevents values from being removed", func() {
				err := dataStore.Close()
				gomega.Expect(err).ShouldNot(gomega.HaveOccurred())

				err = dataStore.Remove(tc.Context, "<key>")
				gomega.Expect(err).To(gomega.Equal(persistence.ErrDataStoreClosed))
			})
		})
	})
}
