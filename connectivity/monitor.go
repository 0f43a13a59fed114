// Package connectivity reports changes in network reachability to interested
// observers.
package connectivity

// Event describes the network state at the time it was observed.
type Event struct {
	// Online is true if the network is believed to be reachable.
	Online bool
}

// Observer is a function that is notified of connectivity events.
type Observer func(Event)

// Monitor is an interface for sources of connectivity events.
type Monitor interface {
	// Subscribe registers o to be notified of connectivity events.
	//
	// It returns a function that removes the subscription. The function may be
	// called more than once.
	Subscribe(o Observer) (cancel func())
}
