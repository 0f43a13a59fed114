// Package boltdbtest provides throwaway BoltDB databases for tests.
package boltdbtest

import (
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

// Path returns the path of a database file inside a new temporary directory.
// The file itself is not created.
//
// remove deletes the directory and everything in it. It is safe to call more
// than once.
func Path() (path string, remove func()) {
	dir, err := os.MkdirTemp("", "syncqueue-bolt-*")
	if err != nil {
		panic(err)
	}

	return filepath.Join(dir, "queue.boltdb"), func() {
		os.RemoveAll(dir) // nolint:errcheck
	}
}

// Open opens a database at a new temporary path.
//
// The returned function closes the database and removes the file. It must be
// used in place of DB.Close().
func Open() (*bbolt.DB, func()) {
	path, remove := Path()

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		remove()
		panic(err)
	}

	return db, func() {
		db.Close() // nolint:errcheck
		remove()
	}
}
