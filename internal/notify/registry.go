package notify

import (
	"context"
	"sync"
	"time"

	"refeitorio/internal/platform/metrics"
)

// Registry maps restaurant IDs to the set of live viewer connections watching
// them. It is process-scoped shared state, constructed once at startup and
// injected into every component that needs it.
type Registry struct {
	mu      sync.Mutex
	viewers map[string]map[Conn]struct{}
	metrics *metrics.Metrics
}

// NewRegistry creates an empty registry. metrics may be nil in tests.
func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		viewers: make(map[string]map[Conn]struct{}),
		metrics: m,
	}
}

// Register adds conn to the restaurant's viewer set, creating the set on
// first use. Registering the same conn twice is a no-op.
func (r *Registry) Register(restaurantID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.viewers[restaurantID]
	if !ok {
		set = make(map[Conn]struct{})
		r.viewers[restaurantID] = set
	}
	if _, exists := set[conn]; exists {
		return
	}
	set[conn] = struct{}{}
	if r.metrics != nil {
		r.metrics.LiveConnections.Inc()
	}
}

// Unregister removes conn from the restaurant's viewer set and drops the set
// entirely once it empties, so stale restaurants do not accumulate.
func (r *Registry) Unregister(restaurantID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregisterLocked(restaurantID, conn)
}

func (r *Registry) unregisterLocked(restaurantID string, conn Conn) {
	set, ok := r.viewers[restaurantID]
	if !ok {
		return
	}
	if _, exists := set[conn]; !exists {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.viewers, restaurantID)
	}
	if r.metrics != nil {
		r.metrics.LiveConnections.Dec()
	}
}

// Broadcast delivers payload to every connection registered for the
// restaurant at the moment of the call. Sends run in parallel outside the
// lock; a failed send unregisters and closes that connection without
// affecting the others.
func (r *Registry) Broadcast(ctx context.Context, restaurantID string, payload []byte) {
	r.mu.Lock()
	set := r.viewers[restaurantID]
	conns := make([]Conn, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	r.mu.Unlock()

	if len(conns) == 0 {
		return
	}

	start := time.Now()
	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func(conn Conn) {
			defer wg.Done()
			if err := conn.Send(ctx, payload); err != nil {
				// Implicit disconnect: the transport is gone.
				r.Unregister(restaurantID, conn)
				_ = conn.Close()
			}
		}(conn)
	}
	wg.Wait()

	if r.metrics != nil {
		r.metrics.Broadcasts.Inc()
		r.metrics.BroadcastLatencyMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}
}

// Count reports how many connections are registered for a restaurant.
func (r *Registry) Count(restaurantID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers[restaurantID])
}
