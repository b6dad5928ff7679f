// ============================================================================
// listener/listener.go - Diagnostic consumer for the swap_events channel
// ============================================================================
package listener

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectionError marks a broker that was unreachable at startup. The caller
// turns it into a user-facing connection-failure message and a non-zero exit.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to Redis at %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Config holds everything the listener needs. Out defaults to stdout.
type Config struct {
	Addr         string
	Channel      string
	AuditLogPath string
	Out          io.Writer
}

// Listener subscribes to one pub/sub channel, prints a summary line per
// message and appends the raw payload to a local audit log. It is
// single-threaded: the only blocking point is the wait for the next message.
type Listener struct {
	client  *redis.Client
	channel string
	audit   *AuditLog
	out     io.Writer

	count int
	start time.Time
}

func New(cfg Config) *Listener {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Listener{
		client: redis.NewClient(&redis.Options{
			Addr: cfg.Addr,
			DB:   0,
		}),
		channel: cfg.Channel,
		audit:   NewAuditLog(cfg.AuditLogPath),
		out:     out,
	}
}

// Run connects, subscribes and blocks until the context is canceled or the
// connection drops. Cancellation is the clean-shutdown path and returns nil;
// every other failure is surfaced to the caller.
func (l *Listener) Run(ctx context.Context) error {
	addr := l.client.Options().Addr

	fmt.Fprintf(l.out, "📡 Connecting to Redis at %s...\n", addr)
	if err := l.client.Ping(ctx).Err(); err != nil {
		return &ConnectionError{Addr: addr, Err: err}
	}
	fmt.Fprintln(l.out, "✅ Redis connection established")

	fmt.Fprintf(l.out, "🎧 Subscribing to channel: %s\n", l.channel)
	fmt.Fprintln(l.out, "⏳ Waiting for events... (Press Ctrl+C to exit)")
	fmt.Fprintln(l.out, "------------------------------------------------------------")

	pubsub := l.client.Subscribe(ctx, l.channel)
	defer pubsub.Close()
	l.start = time.Now()

	// Receive blocks on the socket read and does not watch the context, so
	// closing the subscription is what unblocks it on interrupt. The failed
	// receive is then mapped to the clean-shutdown return below.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			pubsub.Close()
		case <-stop:
		}
	}()

	for {
		msg, err := pubsub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// Interrupt delivered while blocked on the next message.
				return nil
			}
			return fmt.Errorf("receive on channel %s: %w", l.channel, err)
		}
		if err := l.handle(msg); err != nil {
			return err
		}
	}
}

// handle processes one item from the subscription. Subscribe confirmations
// are acknowledged without touching the counter; data messages are counted,
// formatted and appended to the audit log before the next receive.
func (l *Listener) handle(msg interface{}) error {
	switch m := msg.(type) {
	case *redis.Subscription:
		fmt.Fprintf(l.out, "✅ Subscribed to %s\n", m.Channel)
	case *redis.Message:
		l.count++
		fmt.Fprintf(l.out, "\n📊 Event #%d (after %.1fs)\n", l.count, time.Since(l.start).Seconds())
		fmt.Fprintln(l.out, Format([]byte(m.Payload)))

		if err := l.audit.Append(m.Payload); err != nil {
			return err
		}
	case *redis.Pong:
		// Keepalive, not an event.
	}
	return nil
}

// Count returns the number of data messages received so far.
func (l *Listener) Count() int { return l.count }

// Close releases the subscription's underlying connection. Best effort: the
// shutdown path ignores the returned error.
func (l *Listener) Close() error {
	return l.client.Close()
}
