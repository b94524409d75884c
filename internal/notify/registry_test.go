package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeConn records sends and can be told to fail.
type fakeConn struct {
	mu       sync.Mutex
	payloads [][]byte
	failSend bool
	closed   bool
}

func (c *fakeConn) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend {
		return errors.New("send failed")
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) sent() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestBroadcastDeliversExactlyOnce(t *testing.T) {
	r := NewRegistry(nil)
	conn := &fakeConn{}
	r.Register("r1", conn)

	r.Broadcast(context.Background(), "r1", []byte("snapshot"))

	if got := conn.sent(); got != 1 {
		t.Fatalf("expected 1 delivery, got %d", got)
	}
}

func TestBroadcastAfterUnregisterDeliversNothing(t *testing.T) {
	r := NewRegistry(nil)
	conn := &fakeConn{}
	r.Register("r1", conn)
	r.Unregister("r1", conn)

	r.Broadcast(context.Background(), "r1", []byte("snapshot"))

	if got := conn.sent(); got != 0 {
		t.Fatalf("expected no deliveries after unregister, got %d", got)
	}
	if r.Count("r1") != 0 {
		t.Fatalf("expected empty registry entry to be dropped")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	conn := &fakeConn{}
	r.Register("r1", conn)
	r.Register("r1", conn)

	if got := r.Count("r1"); got != 1 {
		t.Fatalf("expected 1 registered conn, got %d", got)
	}

	r.Broadcast(context.Background(), "r1", []byte("snapshot"))
	if got := conn.sent(); got != 1 {
		t.Fatalf("expected a single delivery to a doubly-registered conn, got %d", got)
	}
}

func TestFailedSendUnregistersAndCloses(t *testing.T) {
	r := NewRegistry(nil)
	bad := &fakeConn{failSend: true}
	good := &fakeConn{}
	r.Register("r1", bad)
	r.Register("r1", good)

	r.Broadcast(context.Background(), "r1", []byte("snapshot"))

	if got := good.sent(); got != 1 {
		t.Fatalf("healthy conn should still receive, got %d deliveries", got)
	}
	if !bad.isClosed() {
		t.Fatalf("failed conn should be closed")
	}
	if got := r.Count("r1"); got != 1 {
		t.Fatalf("failed conn should be unregistered, count=%d", got)
	}
}

func TestRestaurantsAreIndependent(t *testing.T) {
	r := NewRegistry(nil)
	a := &fakeConn{}
	b := &fakeConn{}
	r.Register("r1", a)
	r.Register("r2", b)

	r.Broadcast(context.Background(), "r1", []byte("snapshot"))

	if a.sent() != 1 || b.sent() != 0 {
		t.Fatalf("broadcast leaked across restaurants: a=%d b=%d", a.sent(), b.sent())
	}
}

func TestConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry(nil)
	const n = 100

	conns := make([]*fakeConn, n)
	for i := range conns {
		conns[i] = &fakeConn{}
	}

	var wg sync.WaitGroup
	for i := range conns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Register("r1", conns[i])
			if i%2 == 0 {
				r.Unregister("r1", conns[i])
			}
		}(i)
	}
	// Broadcasts racing with registration must not corrupt the set.
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Broadcast(context.Background(), "r1", []byte("x"))
		}()
	}
	wg.Wait()

	if got := r.Count("r1"); got != n/2 {
		t.Fatalf("expected %d conns after net register/unregister, got %d", n/2, got)
	}
}
