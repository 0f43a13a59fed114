package memorypersistence

import (
	"sync"

	"github.com/dogmatiq/marshalkit"
)

// database is an in-memory collection of persisted values for one namespace.
type database struct {
	mutex  sync.RWMutex
	open   bool
	values map[string]marshalkit.Packet
}

// newDatabase returns a new empty database.
func newDatabase() *database {
	return &database{
		values: map[string]marshalkit.Packet{},
	}
}

// TryOpen marks the database as open.
//
// It returns false if the database is already open.
func (db *database) TryOpen() bool {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if db.open {
		return false
	}

	db.open = true
	return true
}

// Close marks the database as closed.
func (db *database) Close() {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.open = false
}
