package syncqueue

import (
	"context"
	"errors"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/fieldpos/syncqueue/connectivity"
	"github.com/fieldpos/syncqueue/internal/mlog"
)

// Run drains the queue each time mon reports that the device is online.
//
// Online events that arrive while the manager is in the StateDraining state
// are ignored. Drain failures are logged; the queue is retried on the next
// online event.
//
// It runs until ctx is canceled, at which point it waits for any in-flight
// drain to finish before returning ctx.Err().
func (m *Manager) Run(ctx context.Context, mon connectivity.Monitor) error {
	online := make(chan struct{}, 1)

	cancel := mon.Subscribe(func(ev connectivity.Event) {
		mlog.LogConnectivity(m.logger, ev.Online, m.Len())

		if ev.Online {
			select {
			case online <- struct{}{}:
			default:
			}
		}
	})
	defer cancel()

	var done chan struct{} // non-nil until the drain goroutine exits

	for {
		select {
		case <-ctx.Done():
			if done != nil {
				<-done
			}
			return ctx.Err()

		case <-done:
			done = nil

		case <-online:
			if done != nil {
				if m.State() == StateDraining {
					logging.Debug(m.logger, "ignoring online event, a drain is already in progress")
					continue
				}

				// The previous drain has finished with the queue, only its
				// goroutine remains.
				<-done
				done = nil
			}

			snapshot, err := m.beginDrain()
			if err != nil {
				m.logDrain(ctx, err)
				continue
			}

			if len(snapshot) == 0 {
				continue
			}

			done = make(chan struct{})
			go func(done chan<- struct{}) {
				defer close(done)
				m.logDrain(ctx, m.completeDrain(ctx, snapshot))
			}(done)
		}
	}
}

// logDrain logs the result of a drain started by Run().
func (m *Manager) logDrain(ctx context.Context, err error) {
	var uerr UploadError

	switch {
	case err == nil:
		return
	case ctx.Err() != nil:
		return
	case errors.Is(err, ErrDrainInProgress):
		logging.Debug(m.logger, "skipped drain: %s", err)
	case errors.As(err, &uerr):
		mlog.LogSystemError(
			m.logger,
			err,
			"drain stopped, %d operation(s) remain queued",
			m.Len(),
		)
	default:
		mlog.LogSystemError(m.logger, err, "drain failed")
	}
}
