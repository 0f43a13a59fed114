package syncqueue

import (
	"context"
	"sync"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/dogmatiq/linger"
	"github.com/fieldpos/syncqueue/internal/mlog"
	"github.com/fieldpos/syncqueue/internal/x/loggingx"
	"github.com/fieldpos/syncqueue/persistence"
	"github.com/google/uuid"
)

// Manager owns the queue of pending operations.
//
// It persists the queue to a data-store whenever it changes and uploads the
// pending operations, in order, when Drain() is called.
type Manager struct {
	dataStore persistence.DataStore
	uploader  Uploader
	opts      *managerOptions
	logger    logging.Logger

	m        sync.Mutex
	queue    []PendingOperation
	last     time.Time
	draining bool
	changes  []StateChange // not yet delivered, protected by m

	// notifyM serializes delivery of changes to the observers. It is never
	// acquired while m is held.
	notifyM   sync.Mutex
	observers map[uint64]func(StateChange)
	next      uint64
}

// New returns a new queue manager that persists its queue to ds and uploads
// operations using u.
//
// The manager starts with an empty queue. Call Load() to restore the queue
// from the data-store.
func New(
	ds persistence.DataStore,
	u Uploader,
	options ...Option,
) *Manager {
	opts := resolveOptions(options)

	return &Manager{
		dataStore: ds,
		uploader:  u,
		opts:      opts,
		logger:    loggingx.WithPrefix(opts.Logger, "[%s] ", opts.StorageKey),
	}
}

// Load replaces the in-memory queue with the queue persisted in the
// data-store.
//
// If the persisted queue can not be read or decoded the failure is logged as
// a StorageReadError and the manager starts with an empty queue. Load only
// returns an error if ctx is canceled or a drain is in progress.
//
// Enqueue() blocks until Load() has returned.
func (m *Manager) Load(ctx context.Context) error {
	m.m.Lock()

	if m.draining {
		m.m.Unlock()
		return ErrDrainInProgress
	}

	ops, err := m.load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			m.m.Unlock()
			return ctx.Err()
		}

		mlog.LogSystemError(
			m.logger,
			StorageReadError{m.opts.StorageKey, err},
			"starting with an empty queue",
		)
	}

	m.queue = ops
	m.last = time.Time{}
	for _, op := range ops {
		if op.Timestamp.After(m.last) {
			m.last = op.Timestamp
		}
	}

	if err == nil {
		mlog.LogSystem(m.logger, "loaded %d pending operation(s)", len(ops))
	}

	m.unlockAndNotify()

	return nil
}

// load reads the persisted queue from the data-store. m.m must be locked.
func (m *Manager) load(ctx context.Context) ([]PendingOperation, error) {
	p, ok, err := m.dataStore.Load(ctx, m.opts.StorageKey)
	if err != nil || !ok {
		return nil, err
	}

	return unmarshalQueue(m.opts.Marshaler, p)
}

// Enqueue adds an operation to the end of the queue.
//
// The operation is persisted before Enqueue() returns. If it can not be
// persisted a StorageWriteError is returned and the operation is not queued.
func (m *Manager) Enqueue(ctx context.Context, op Operation) (PendingOperation, error) {
	m.m.Lock()

	pending := PendingOperation{
		ID:        uuid.NewString(),
		DeviceID:  m.opts.DeviceID,
		Type:      op.Type,
		Payload:   cloneBytes(op.Payload),
		Timestamp: m.nextTimestamp(),
	}

	queue := make([]PendingOperation, len(m.queue), len(m.queue)+1)
	copy(queue, m.queue)
	queue = append(queue, pending)

	if err := m.save(ctx, queue); err != nil {
		m.m.Unlock()
		mlog.LogSystemError(m.logger, err, "operation was not queued")
		return PendingOperation{}, err
	}

	m.queue = queue
	m.last = pending.Timestamp

	mlog.LogEnqueue(
		m.logger,
		pending.ID,
		pending.DeviceID,
		pending.Type,
		len(queue),
	)

	m.unlockAndNotify()

	return pending.clone(), nil
}

// nextTimestamp returns the timestamp to use for the next operation.
//
// The clock is read at millisecond precision, which is the precision of the
// persisted representation. If the clock has gone backwards the timestamp of
// the most recent operation is reused. m.m must be locked.
func (m *Manager) nextTimestamp() time.Time {
	now := time.UnixMilli(m.opts.Clock().UnixMilli())
	if now.Before(m.last) {
		return m.last
	}

	return now
}

// save persists ops to the data-store. m.m must be locked.
func (m *Manager) save(ctx context.Context, ops []PendingOperation) error {
	p, err := marshalQueue(m.opts.Marshaler, ops)
	if err == nil {
		err = m.dataStore.Save(ctx, m.opts.StorageKey, p)
	}

	if err != nil {
		return StorageWriteError{m.opts.StorageKey, err}
	}

	return nil
}

// remove removes the persisted queue from the data-store. m.m must be locked.
func (m *Manager) remove(ctx context.Context) error {
	if err := m.dataStore.Remove(ctx, m.opts.StorageKey); err != nil {
		return StorageWriteError{m.opts.StorageKey, err}
	}

	return nil
}

// Drain uploads each pending operation, in order.
//
// It stops at the first operation that fails to upload and returns an
// UploadError. In that case every operation remains queued, including those
// that were uploaded successfully before the failure.
//
// Once every operation has been uploaded it is removed from the data-store,
// and then from memory. Operations enqueued while the drain was in progress
// are kept for the next drain.
//
// If another drain is already in progress it returns ErrDrainInProgress
// without uploading anything.
func (m *Manager) Drain(ctx context.Context) error {
	snapshot, err := m.beginDrain()
	if err != nil || len(snapshot) == 0 {
		return err
	}

	return m.completeDrain(ctx, snapshot)
}

// beginDrain marks the manager as draining and returns the operations to
// upload. It returns an empty snapshot if there is nothing to drain.
func (m *Manager) beginDrain() ([]PendingOperation, error) {
	m.m.Lock()

	if m.draining {
		m.m.Unlock()
		return nil, ErrDrainInProgress
	}

	if len(m.queue) == 0 {
		m.m.Unlock()
		return nil, nil
	}

	m.draining = true
	snapshot := cloneOperations(m.queue)

	m.unlockAndNotify()

	return snapshot, nil
}

// completeDrain uploads the operations returned by beginDrain() and then
// removes them from the queue if they were all uploaded.
func (m *Manager) completeDrain(ctx context.Context, snapshot []PendingOperation) error {
	err := m.upload(ctx, snapshot)

	m.m.Lock()
	m.draining = false

	if err == nil {
		err = m.discard(ctx, len(snapshot))
	}

	m.unlockAndNotify()

	return err
}

// upload sends each of ops to the uploader, in order.
func (m *Manager) upload(ctx context.Context, ops []PendingOperation) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := m.uploadOne(ctx, op); err != nil {
			mlog.LogUploadError(m.logger, op.ID, op.DeviceID, op.Type, err)
			return UploadError{
				Operation: op,
				Index:     i,
				Cause:     err,
			}
		}

		mlog.LogUpload(m.logger, op.ID, op.DeviceID, op.Type, i, len(ops))
	}

	return nil
}

// uploadOne sends a single operation to the uploader, applying the upload
// timeout, if any.
func (m *Manager) uploadOne(ctx context.Context, op PendingOperation) error {
	if m.opts.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = linger.ContextWithTimeout(ctx, m.opts.UploadTimeout)
		defer cancel()
	}

	return m.uploader.UploadOperation(ctx, op.clone())
}

// discard removes the first n operations from the queue after they have been
// uploaded. m.m must be locked.
//
// Storage is updated before memory. If the storage write fails the in-memory
// queue is left intact.
func (m *Manager) discard(ctx context.Context, n int) error {
	if n == len(m.queue) {
		if err := m.remove(ctx); err != nil {
			mlog.LogSystemError(m.logger, err, "uploaded operations remain queued")
			return err
		}

		m.queue = nil
	} else {
		remainder := cloneOperations(m.queue[n:])

		if err := m.save(ctx, remainder); err != nil {
			mlog.LogSystemError(m.logger, err, "uploaded operations remain queued")
			return err
		}

		m.queue = remainder
	}

	mlog.LogSystem(
		m.logger,
		"uploaded %d operation(s), %d remain queued",
		n,
		len(m.queue),
	)

	return nil
}

// Len returns the number of pending operations.
func (m *Manager) Len() int {
	m.m.Lock()
	defer m.m.Unlock()

	return len(m.queue)
}

// Operations returns a copy of the pending operations, in queue order.
func (m *Manager) Operations() []PendingOperation {
	m.m.Lock()
	defer m.m.Unlock()

	return cloneOperations(m.queue)
}

// State returns the manager's current state.
func (m *Manager) State() State {
	m.m.Lock()
	defer m.m.Unlock()

	return m.state()
}

// state returns the manager's current state. m.m must be locked.
func (m *Manager) state() State {
	if m.draining {
		return StateDraining
	}

	if len(m.queue) == 0 {
		return StateEmpty
	}

	return StatePending
}

// Subscribe registers fn to be called after each change to the manager's
// state or to the number of pending operations.
//
// Changes are delivered one at a time, in the order they occur, before the
// call that made the change returns. fn may call Len(), Operations() and
// State(), which can already reflect later changes. It must not call Load(),
// Enqueue(), Drain() or the cancel function.
//
// It returns a function that removes the subscription.
func (m *Manager) Subscribe(fn func(StateChange)) (cancel func()) {
	m.notifyM.Lock()
	defer m.notifyM.Unlock()

	if m.observers == nil {
		m.observers = map[uint64]func(StateChange){}
	}

	id := m.next
	m.next++
	m.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.notifyM.Lock()
			defer m.notifyM.Unlock()

			delete(m.observers, id)
		})
	}
}

// unlockAndNotify records the manager's current state, unlocks m.m and then
// delivers any undelivered changes to the observers. m.m must be locked.
func (m *Manager) unlockAndNotify() {
	m.changes = append(m.changes, StateChange{
		State: m.state(),
		Len:   len(m.queue),
	})

	m.m.Unlock()
	m.notify()
}

// notify delivers undelivered changes to the observers, in order.
func (m *Manager) notify() {
	m.notifyM.Lock()
	defer m.notifyM.Unlock()

	for {
		m.m.Lock()
		changes := m.changes
		m.changes = nil
		m.m.Unlock()

		if len(changes) == 0 {
			return
		}

		for _, c := range changes {
			for _, fn := range m.observers {
				fn(c)
			}
		}
	}
}
