// Package events publishes order lifecycle events for downstream consumers
// (billing, reporting). Publication is best-effort: a broker outage never
// fails or delays an order write.
package events

import (
	"context"
	"time"
)

// OrderCreated is emitted after an order is persisted.
type OrderCreated struct {
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	Sector       string    `json:"sector,omitempty"`
	OrderDate    time.Time `json:"order_date"`
}

// Publisher emits order events. Implementations must not block the caller on
// delivery.
type Publisher interface {
	Emit(ctx context.Context, evt OrderCreated)
}
