package listener

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListener(t *testing.T) (*Listener, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.log")
	out := &bytes.Buffer{}
	l := &Listener{
		channel: "swap_events",
		audit:   NewAuditLog(path),
		out:     out,
		start:   time.Now(),
	}
	return l, out, path
}

func TestHandleCountsDataMessages(t *testing.T) {
	l, out, _ := newTestListener(t)

	require.NoError(t, l.handle(&redis.Message{Channel: "swap_events", Payload: `{"dex":"UniswapV2"}`}))
	require.NoError(t, l.handle(&redis.Message{Channel: "swap_events", Payload: "garbage"}))

	assert.Equal(t, 2, l.Count())
	assert.Contains(t, out.String(), "Event #1")
	assert.Contains(t, out.String(), "Event #2")
}

func TestHandleIgnoresSubscribeConfirmation(t *testing.T) {
	l, out, _ := newTestListener(t)

	require.NoError(t, l.handle(&redis.Subscription{Kind: "subscribe", Channel: "swap_events", Count: 1}))

	assert.Equal(t, 0, l.Count())
	assert.Contains(t, out.String(), "Subscribed to swap_events")
	assert.NotContains(t, out.String(), "Event #")
}

func TestHandleAppendsAuditLine(t *testing.T) {
	l, _, path := newTestListener(t)

	payload := `{"chain":"Ethereum"}`
	require.NoError(t, l.handle(&redis.Message{Channel: "swap_events", Payload: payload}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), " | "+payload)
}

func TestHandleAuditFailureIsFatal(t *testing.T) {
	l, _, _ := newTestListener(t)
	l.audit = NewAuditLog(filepath.Join(t.TempDir(), "missing", "events.log"))

	err := l.handle(&redis.Message{Channel: "swap_events", Payload: "x"})
	assert.Error(t, err)
}

func TestRunConnectionError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l := New(Config{
		// Port 1 is never a Redis server.
		Addr:         "localhost:1",
		Channel:      "swap_events",
		AuditLogPath: path,
		Out:          &bytes.Buffer{},
	})
	defer l.Close()

	err := l.Run(context.Background())
	require.Error(t, err)

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)

	// Nothing may be appended when the broker is unreachable.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

// syncWriter makes the listener's output safe to share with the test goroutine.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// silentBroker speaks just enough RESP to answer the handshake and confirm a
// subscription, then never delivers a message. Commands arrive as RESP arrays;
// matching on the command-name bulk line is enough to pick the reply.
func silentBroker(t *testing.T, channel string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				r := bufio.NewReader(c)
				for {
					line, err := r.ReadString('\n')
					if err != nil {
						return
					}
					switch strings.ToUpper(strings.TrimSpace(line)) {
					case "HELLO":
						fmt.Fprintf(c, "-ERR unknown command 'hello'\r\n")
					case "CLIENT":
						fmt.Fprintf(c, "-ERR unknown command 'client'\r\n")
					case "PING":
						fmt.Fprintf(c, "+PONG\r\n")
					case "SUBSCRIBE":
						fmt.Fprintf(c, "*3\r\n$9\r\nsubscribe\r\n$%d\r\n%s\r\n:1\r\n", len(channel), channel)
					}
				}
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func TestRunInterruptWhileBlocked(t *testing.T) {
	addr := silentBroker(t, "swap_events")
	path := filepath.Join(t.TempDir(), "events.log")
	out := &syncWriter{}

	l := New(Config{Addr: addr, Channel: "swap_events", AuditLogPath: path, Out: out})
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	// The loop is blocked on the next message once the subscription is acked.
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Subscribed to swap_events")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop after interrupt")
	}
	assert.Equal(t, 0, l.Count())
}

func TestRunAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	probe := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	defer probe.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := probe.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	channel := fmt.Sprintf("swap_events_test_%d", time.Now().UnixNano())
	path := filepath.Join(t.TempDir(), "events.log")
	out := &syncWriter{}

	l := New(Config{Addr: addr, Channel: channel, AuditLogPath: path, Out: out})
	defer l.Close()

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(runCtx) }()

	// Wait for the subscription to land before publishing.
	require.Eventually(t, func() bool {
		counts, err := probe.PubSubNumSub(ctx, channel).Result()
		return err == nil && counts[channel] == 1
	}, 5*time.Second, 50*time.Millisecond)

	payload := `{"chain":"Ethereum","dex":"UniswapV3","transaction_hash":"0xabcdef1234567890",` +
		`"token_in":{"symbol":"ETH"},"token_out":{"symbol":"USDC"},` +
		`"amount_in":"1.0","amount_out":"3200.0","timestamp":"2024-01-01T00:00:00Z"}`
	require.NoError(t, probe.Publish(ctx, channel, payload).Err())

	// The audit line must be durable before we stop the loop.
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && bytes.Contains(data, []byte(payload))
	}, 5*time.Second, 50*time.Millisecond)

	stop()
	require.NoError(t, <-done)

	assert.Equal(t, 1, l.Count())
	assert.Contains(t, out.String(), "Event #1")
	assert.Contains(t, out.String(), "[2024-01-01T00:00:00Z] Ethereum | UniswapV3 | 0xabcdef12... | 1.0 ETH → 3200.0 USDC")
}
