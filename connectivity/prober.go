package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/dogmatiq/linger"
)

const (
	// DefaultProbeInterval is the default delay between probes.
	DefaultProbeInterval = 5 * time.Second

	// DefaultProbeTimeout is the default maximum time to wait for a single
	// probe to connect.
	DefaultProbeTimeout = 2 * time.Second
)

// DialFunc is a function that opens a network connection.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Prober is a Monitor that determines connectivity by periodically opening a
// TCP connection to a well-known address.
//
// Subscribers are notified when the first probe completes and then whenever
// the result changes.
type Prober struct {
	// Address is the TCP address to dial, in "host:port" form.
	Address string

	// Dial opens the connection. If it is nil, a net.Dialer is used.
	Dial DialFunc

	// Interval is the delay between probes. If it is zero,
	// DefaultProbeInterval is used.
	Interval time.Duration

	// Timeout is the maximum time allowed for a single probe. If it is zero,
	// DefaultProbeTimeout is used.
	Timeout time.Duration

	// Logger is the target for log messages about connectivity changes. If it
	// is nil, logging.DefaultLogger is used.
	Logger logging.Logger

	b Broadcaster
}

// Subscribe registers o to be notified of connectivity events.
func (p *Prober) Subscribe(o Observer) (cancel func()) {
	return p.b.Subscribe(o)
}

// Run probes the address until ctx is canceled.
func (p *Prober) Run(ctx context.Context) error {
	logger := p.Logger
	if logger == nil {
		logger = logging.DefaultLogger
	}

	var (
		last  bool
		known bool
	)

	for {
		online := p.probe(ctx)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !known || online != last {
			known = true
			last = online

			if online {
				logging.Debug(logger, "%s is reachable", p.Address)
			} else {
				logging.Debug(logger, "%s is unreachable", p.Address)
			}

			p.b.Publish(online)
		}

		if err := linger.Sleep(ctx, p.Interval, DefaultProbeInterval); err != nil {
			return err
		}
	}
}

// probe returns true if a connection to the address can be established.
func (p *Prober) probe(ctx context.Context) bool {
	ctx, cancel := linger.ContextWithTimeout(ctx, p.Timeout, DefaultProbeTimeout)
	defer cancel()

	dial := p.Dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}

	conn, err := dial(ctx, "tcp", p.Address)
	if err != nil {
		return false
	}

	conn.Close()
	return true
}
