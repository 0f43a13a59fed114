package bboltx

import (
	"go.etcd.io/bbolt"
)

// View executes fn within a managed read-only transaction.
//
// Errors passed to Must() within fn are re-raised once the transaction has
// ended, so the caller must defer Recover().
func View(db *bbolt.DB, fn func(tx *bbolt.Tx)) {
	Must(
		db.View(
			func(tx *bbolt.Tx) (err error) {
				defer Recover(&err)
				fn(tx)
				return nil
			},
		),
	)
}

// Update executes fn within a managed read-write transaction.
//
// The transaction is committed if fn returns without panicking.
func Update(db *bbolt.DB, fn func(tx *bbolt.Tx)) {
	Must(
		db.Update(
			func(tx *bbolt.Tx) (err error) {
				defer Recover(&err)
				fn(tx)
				return nil
			},
		),
	)
}
