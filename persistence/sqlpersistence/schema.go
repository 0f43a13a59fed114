package sqlpersistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldpos/syncqueue/persistence/sqlpersistence/mysql"
	"github.com/fieldpos/syncqueue/persistence/sqlpersistence/postgres"
	"github.com/fieldpos/syncqueue/persistence/sqlpersistence/sqlite"
	"go.uber.org/multierr"
)

// CreateSchema creates the document and lock tables in db if they do not
// already exist.
//
// The driver is chosen from the built-in drivers by probing db.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	d, err := selectDriver(ctx, db)
	if err != nil {
		return err
	}
	return d.CreateSchema(ctx, db)
}

// DropSchema removes the tables created by CreateSchema(), if present.
func DropSchema(ctx context.Context, db *sql.DB) error {
	d, err := selectDriver(ctx, db)
	if err != nil {
		return err
	}
	return d.DropSchema(ctx, db)
}

// candidateDrivers are probed in order by selectDriver().
var candidateDrivers = []Driver{
	mysql.Driver,
	postgres.Driver,
	sqlite.Driver,
}

// selectDriver returns the first candidate driver that is compatible with db.
//
// The returned error describes why each candidate was rejected.
func selectDriver(ctx context.Context, db *sql.DB) (Driver, error) {
	errs := make([]error, 0, len(candidateDrivers)+1)

	for _, d := range candidateDrivers {
		err := d.IsCompatibleWith(ctx, db)
		if err == nil {
			return d, nil
		}

		errs = append(errs, fmt.Errorf("%T is not compatible with %T: %w", d, db.Driver(), err))
	}

	errs = append(errs, fmt.Errorf("could not find a driver that is compatible with %T", db.Driver()))

	return nil, multierr.Combine(errs...)
}
