package connectivity

import (
	"sync"
)

// Broadcaster is an in-process Monitor that delivers the events passed to
// Publish() to each of its subscribers.
//
// It is intended to be fed by platform-specific code that receives
// reachability notifications from the operating system.
type Broadcaster struct {
	m         sync.Mutex
	next      uint64
	observers map[uint64]Observer
	last      Event
	published bool
}

// Subscribe registers o to be notified of connectivity events.
//
// If an event has already been published, o is called with the most recent
// event before Subscribe() returns.
func (b *Broadcaster) Subscribe(o Observer) (cancel func()) {
	b.m.Lock()

	if b.observers == nil {
		b.observers = map[uint64]Observer{}
	}

	id := b.next
	b.next++
	b.observers[id] = o

	last, published := b.last, b.published

	b.m.Unlock()

	if published {
		o(last)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			b.m.Lock()
			defer b.m.Unlock()

			delete(b.observers, id)
		})
	}
}

// Publish notifies all subscribers of a connectivity event.
//
// Observers are called synchronously, in no particular order, without any
// lock held. Every call notifies the observers, even if the state has not
// changed.
func (b *Broadcaster) Publish(online bool) {
	ev := Event{Online: online}

	b.m.Lock()
	b.last = ev
	b.published = true

	observers := make([]Observer, 0, len(b.observers))
	for _, o := range b.observers {
		observers = append(observers, o)
	}
	b.m.Unlock()

	for _, o := range observers {
		o(ev)
	}
}

// Last returns the most recently published event.
//
// ok is false if no event has been published.
func (b *Broadcaster) Last() (ev Event, ok bool) {
	b.m.Lock()
	defer b.m.Unlock()

	return b.last, b.published
}
