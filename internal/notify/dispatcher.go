package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// SectorOrders is one row of the live snapshot: how many orders a sector has
// placed today.
type SectorOrders struct {
	Sector string `json:"sector_name"`
	Unit   string `json:"unity"`
	Orders int    `json:"orders_count"`
}

// SnapshotSource provides the current day's aggregate for a restaurant. The
// query is read-only and idempotent: dispatching twice for the same state
// produces the same payload.
type SnapshotSource interface {
	CurrentOrders(ctx context.Context, restaurantID string, day time.Time) ([]SectorOrders, error)
}

// Publisher carries a snapshot beyond the local process. The redis bridge
// implements it; when absent, dispatch stays local.
type Publisher interface {
	Publish(ctx context.Context, restaurantID string, payload []byte) error
}

// Dispatcher recomputes and fans out restaurant snapshots after order events.
// Dispatch is asynchronous: the write that triggered it never waits on
// delivery.
type Dispatcher struct {
	source    SnapshotSource
	registry  *Registry
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
}

func NewDispatcher(source SnapshotSource, registry *Registry, publisher Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		source:    source,
		registry:  registry,
		publisher: publisher,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

// OrderPlaced schedules a snapshot broadcast for the restaurant. It returns
// immediately; failures are logged and never propagated to the caller.
func (d *Dispatcher) OrderPlaced(restaurantID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		payload, err := d.Snapshot(ctx, restaurantID)
		if err != nil {
			d.logger.ErrorContext(ctx, "snapshot recompute failed",
				"restaurant_id", restaurantID,
				"error", err,
			)
			return
		}

		if d.publisher != nil {
			// The bridge echoes back to every replica's subscribe loop,
			// including this one, which performs the local broadcast.
			if err := d.publisher.Publish(ctx, restaurantID, payload); err != nil {
				d.logger.WarnContext(ctx, "snapshot publish failed, falling back to local broadcast",
					"restaurant_id", restaurantID,
					"error", err,
				)
				d.registry.Broadcast(ctx, restaurantID, payload)
			}
			return
		}

		d.registry.Broadcast(ctx, restaurantID, payload)
	}()
}

// Snapshot computes the current day's aggregate for a restaurant as the JSON
// payload sent to viewers.
func (d *Dispatcher) Snapshot(ctx context.Context, restaurantID string) ([]byte, error) {
	rows, err := d.source.CurrentOrders(ctx, restaurantID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []SectorOrders{}
	}
	return json.Marshal(rows)
}

// Registry exposes the registry for the transport layer.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}
