package syncqueue

import "fmt"

// State is the state of a queue manager.
type State int

const (
	// StateEmpty indicates that there are no pending operations.
	StateEmpty State = iota

	// StatePending indicates that there are pending operations and no drain is
	// in progress.
	StatePending

	// StateDraining indicates that pending operations are being uploaded.
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateDraining:
		return "draining"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StateChange describes the manager after a change to its state or to the
// number of pending operations.
type StateChange struct {
	State State
	Len   int
}
