//go:build integration

package notify

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"refeitorio/pkg/testutil/containers"
)

type capturingConn struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *capturingConn) Send(_ context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, append([]byte(nil), payload...))
	return nil
}

func (c *capturingConn) Close() error { return nil }

func (c *capturingConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.payloads))
	copy(out, c.payloads)
	return out
}

// A snapshot published on one bridge must reach viewers registered on another
// bridge's registry, which is how multi-replica fan-out works in production.
func TestBridgeRelaysAcrossRegistries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	publisherSide := NewRedisBridge(rc.Client, NewRegistry(nil), logger)

	subscriberRegistry := NewRegistry(nil)
	subscriberSide := NewRedisBridge(rc.Client, subscriberRegistry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = subscriberSide.Run(ctx) }()

	conn := &capturingConn{}
	subscriberRegistry.Register("rest-1", conn)

	// The subscribe loop needs a moment to establish before publishing.
	require.Eventually(t, func() bool {
		_ = publisherSide.Publish(context.Background(), "rest-1", []byte(`[{"orders_count":1}]`))
		return len(conn.received()) > 0
	}, 5*time.Second, 100*time.Millisecond)

	payloads := conn.received()
	require.Contains(t, string(payloads[len(payloads)-1]), "orders_count")
}
