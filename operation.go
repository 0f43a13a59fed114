package syncqueue

import (
	"time"
)

// Operation is a write operation that must eventually be delivered to the
// remote system.
type Operation struct {
	// Type is a short description of the operation, such as "payment". It is
	// not interpreted by the queue and may be empty.
	Type string

	// Payload is the operation's content. It is opaque to the queue.
	Payload []byte
}

// PendingOperation is an operation that has been accepted by the queue and
// not yet successfully uploaded.
type PendingOperation struct {
	// ID uniquely identifies the operation. The remote system may use it to
	// detect an operation that is uploaded more than once.
	ID string

	// DeviceID identifies the device that recorded the operation. It is empty
	// unless the manager is configured with WithDeviceID().
	DeviceID string

	// Type is the operation's type, as passed to Enqueue().
	Type string

	// Payload is the operation's content, as passed to Enqueue().
	Payload []byte

	// Timestamp is the time at which the operation was enqueued, at
	// millisecond precision. Timestamps never decrease in enqueue order.
	Timestamp time.Time
}

// clone returns a deep copy of op.
func (op PendingOperation) clone() PendingOperation {
	op.Payload = cloneBytes(op.Payload)
	return op
}

// cloneOperations returns a deep copy of ops.
func cloneOperations(ops []PendingOperation) []PendingOperation {
	if len(ops) == 0 {
		return nil
	}

	clone := make([]PendingOperation, len(ops))
	for i, op := range ops {
		clone[i] = op.clone()
	}

	return clone
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte{}, b...)
}
