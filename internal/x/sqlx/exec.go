package sqlx

import (
	"context"
	"database/sql"
)

// Exec executes a statement that is not expected to return rows.
func Exec(ctx context.Context, db DB, query string, args ...any) sql.Result {
	res, err := db.ExecContext(ctx, query, args...)
	Must(err)
	return res
}

// ExecOne executes a statement and reports whether it affected exactly one row.
//
// MySQL only counts a row as affected when its values actually change.
func ExecOne(ctx context.Context, db DB, query string, args ...any) bool {
	return affected(Exec(ctx, db, query, args...)) == 1
}

// Insert executes an INSERT statement that inserts at most one row.
//
// ok is false if no row was inserted, for example because of an ON CONFLICT or
// ON DUPLICATE KEY clause.
func Insert(ctx context.Context, db DB, query string, args ...any) (id int64, ok bool) {
	res := Exec(ctx, db, query, args...)

	if affected(res) != 1 {
		return 0, false
	}

	id, err := res.LastInsertId()
	Must(err)

	return id, true
}

func affected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	Must(err)
	return n
}
