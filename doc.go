// Package syncqueue is a durable, strictly-ordered queue of write operations
// recorded while a device is offline.
//
// Operations are persisted before Enqueue() returns, and are uploaded one at a
// time, in the order they were enqueued, when the device comes back online. If
// any upload fails the entire queue is retained so that the next attempt
// starts again from the first operation.
package syncqueue
