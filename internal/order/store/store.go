package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/notify"
	"refeitorio/internal/order/models"
)

// Store persists orders. Create returns sentinel.ErrConflict when the
// collaborator already has an order on the same UTC calendar day; missing
// records surface as sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// CurrentOrders aggregates the restaurant's orders for the given day by
	// sector. It backs both the live feed and the REST snapshot endpoint.
	CurrentOrders(ctx context.Context, restaurantID string, day time.Time) ([]notify.SectorOrders, error)
}
