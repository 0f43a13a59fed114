package sqlpersistence_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/dogmatiq/sqltest/sqlstub"
	"github.com/fieldpos/syncqueue/persistence"
	"github.com/fieldpos/syncqueue/persistence/internal/providertest"
	. "github.com/fieldpos/syncqueue/persistence/sqlpersistence"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

// sqliteDSN returns the DSN of a new SQLite database file in a temporary
// directory.
func sqliteDSN() string {
	return "file:" + filepath.Join(GinkgoT().TempDir(), "queue.db") + "?_pragma=busy_timeout(5000)"
}

// openSQLite opens a new SQLite database and creates the schema.
func openSQLite(ctx context.Context, dsn string) *sql.DB {
	db, err := sql.Open("sqlite", dsn)
	Expect(err).ShouldNot(HaveOccurred())

	err = CreateSchema(ctx, db)
	Expect(err).ShouldNot(HaveOccurred())

	return db
}

var _ = Describe("type Provider", func() {
	var db *sql.DB

	providertest.Declare(
		func(ctx context.Context, in providertest.In) providertest.Out {
			db = openSQLite(ctx, sqliteDSN())

			return providertest.Out{
				NewProvider: func() (persistence.Provider, func()) {
					return &Provider{DB: db}, nil
				},
				IsShared: true,
			}
		},
		func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			err := DropSchema(ctx, db)
			Expect(err).ShouldNot(HaveOccurred())

			err = db.Close()
			Expect(err).ShouldNot(HaveOccurred())
		},
	)

	Describe("func Open()", func() {
		It("returns an error if a compatible driver can not be found", func() {
			provider := &Provider{
				DB: sql.OpenDB(&sqlstub.Connector{}),
			}

			ds, err := provider.Open(context.Background(), "<namespace>")
			if ds != nil {
				ds.Close()
			}

			Expect(err).To(HaveOccurred())
			Expect(multierr.Errors(err)).To(ContainElement(
				MatchError("could not find a driver that is compatible with *sqlstub.Driver"),
			))
		})
	})
})

var _ = Describe("type DSNProvider", func() {
	var dsn string

	providertest.Declare(
		func(ctx context.Context, in providertest.In) providertest.Out {
			dsn = sqliteDSN()

			db := openSQLite(ctx, dsn)
			defer db.Close()

			return providertest.Out{
				NewProvider: func() (persistence.Provider, func()) {
					return &DSNProvider{
						DriverName: "sqlite",
						DSN:        dsn,
					}, nil
				},
				IsShared: true,
			}
		},
		nil,
	)

	Describe("func Open()", func() {
		It("returns an error if the DB can not be opened", func() {
			provider := &DSNProvider{
				DriverName: "<nonsense-driver>",
				DSN:        "<nonsense-dsn>",
			}

			ds, err := provider.Open(context.Background(), "<namespace>")
			if ds != nil {
				ds.Close()
			}
			Expect(err).Should(HaveOccurred())
		})

		It("does not allow a namespace to be opened by another pool", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			dsn := sqliteDSN()
			db := openSQLite(ctx, dsn)
			db.Close()

			first := &DSNProvider{DriverName: "sqlite", DSN: dsn}
			second := &DSNProvider{DriverName: "sqlite", DSN: dsn}

			ds, err := first.Open(ctx, "<namespace>")
			Expect(err).ShouldNot(HaveOccurred())

			_, err = second.Open(ctx, "<namespace>")
			Expect(err).To(Equal(persistence.ErrDataStoreLocked))

			err = ds.Close()
			Expect(err).ShouldNot(HaveOccurred())

			ds, err = second.Open(ctx, "<namespace>")
			Expect(err).ShouldNot(HaveOccurred())
			ds.Close()
		})
	})

	Context("var DefaultMaxIdleConns", func() {
		It("is not zero", func() {
			Expect(DefaultMaxIdleConns).To(BeNumerically(">", 0))
		})
	})

	Context("var DefaultMaxOpenConns", func() {
		It("is larger than DefaultMaxIdleConns", func() {
			Expect(DefaultMaxOpenConns).To(BeNumerically(">", DefaultMaxIdleConns))
		})
	})

	Context("var DefaultLockTTL", func() {
		It("is not zero", func() {
			Expect(DefaultLockTTL).To(BeNumerically(">", 0))
		})
	})
})
