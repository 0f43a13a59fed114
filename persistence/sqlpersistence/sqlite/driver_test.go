package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/persistence"
	"github.com/fieldpos/syncqueue/persistence/internal/providertest"
	"github.com/fieldpos/syncqueue/persistence/sqlpersistence"
	. "github.com/fieldpos/syncqueue/persistence/sqlpersistence/sqlite"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	_ "modernc.org/sqlite"
)

var _ = Describe("type driver", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		db     *sql.DB
	)

	open := func(ctx context.Context) *sql.DB {
		dsn := "file:" + filepath.Join(GinkgoT().TempDir(), "queue.db") + "?_pragma=busy_timeout(5000)"

		db, err := sql.Open("sqlite", dsn)
		Expect(err).ShouldNot(HaveOccurred())

		err = Driver.CreateSchema(ctx, db)
		Expect(err).ShouldNot(HaveOccurred())

		return db
	}

	providertest.Declare(
		func(ctx context.Context, in providertest.In) providertest.Out {
			db = open(ctx)

			return providertest.Out{
				NewProvider: func() (persistence.Provider, func()) {
					return &sqlpersistence.Provider{DB: db, Driver: Driver}, nil
				},
				IsShared: true,
			}
		},
		func() {
			db.Close()
		},
	)

	When("used directly", func() {
		BeforeEach(func() {
			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			db = open(ctx)
		})

		AfterEach(func() {
			db.Close()
			cancel()
		})

		Describe("func IsCompatibleWith()", func() {
			It("accepts a SQLite database", func() {
				err := Driver.IsCompatibleWith(ctx, db)
				Expect(err).ShouldNot(HaveOccurred())
			})
		})

		Describe("func CreateSchema()", func() {
			It("does not fail if the schema already exists", func() {
				err := Driver.CreateSchema(ctx, db)
				Expect(err).ShouldNot(HaveOccurred())
			})
		})

		Describe("document operations", func() {
			It("keeps documents in different namespaces apart", func() {
				err := Driver.UpsertDocument(ctx, db, "<ns-a>", "<key>", marshalkit.Packet{MediaType: "<a>", Data: []byte("a")})
				Expect(err).ShouldNot(HaveOccurred())

				err = Driver.UpsertDocument(ctx, db, "<ns-b>", "<key>", marshalkit.Packet{MediaType: "<b>", Data: []byte("b")})
				Expect(err).ShouldNot(HaveOccurred())

				p, ok, err := Driver.SelectDocument(ctx, db, "<ns-a>", "<key>")
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())
				Expect(p).To(Equal(marshalkit.Packet{MediaType: "<a>", Data: []byte("a")}))

				err = Driver.DeleteDocument(ctx, db, "<ns-a>", "<key>")
				Expect(err).ShouldNot(HaveOccurred())

				_, ok, err = Driver.SelectDocument(ctx, db, "<ns-a>", "<key>")
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeFalse())

				_, ok, err = Driver.SelectDocument(ctx, db, "<ns-b>", "<key>")
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())
			})
		})

		Describe("lock operations", func() {
			It("does not grant a lock that is already held", func() {
				_, ok, err := Driver.AcquireLock(ctx, db, "<ns>", time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())

				_, ok, err = Driver.AcquireLock(ctx, db, "<ns>", time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeFalse())
			})

			It("grants a lock once the previous holder's lock has expired", func() {
				first, ok, err := Driver.AcquireLock(ctx, db, "<ns>", time.Millisecond)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())

				time.Sleep(5 * time.Millisecond)

				_, ok, err = Driver.AcquireLock(ctx, db, "<ns>", time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())

				ok, err = Driver.RenewLock(ctx, db, first, time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeFalse())
			})

			It("does not fail when releasing a lock that has already been purged", func() {
				first, _, err := Driver.AcquireLock(ctx, db, "<ns>", time.Millisecond)
				Expect(err).ShouldNot(HaveOccurred())

				time.Sleep(5 * time.Millisecond)

				_, ok, err := Driver.AcquireLock(ctx, db, "<ns>", time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())

				err = Driver.ReleaseLock(ctx, db, first)
				Expect(err).ShouldNot(HaveOccurred())

				_, ok, err = Driver.AcquireLock(ctx, db, "<ns>", time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeFalse())
			})

			It("grants a lock once it has been released", func() {
				id, _, err := Driver.AcquireLock(ctx, db, "<ns>", time.Minute)
				Expect(err).ShouldNot(HaveOccurred())

				ok, err := Driver.RenewLock(ctx, db, id, time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())

				err = Driver.ReleaseLock(ctx, db, id)
				Expect(err).ShouldNot(HaveOccurred())

				_, ok, err = Driver.AcquireLock(ctx, db, "<ns>", time.Minute)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(ok).To(BeTrue())
			})
		})
	})
})
