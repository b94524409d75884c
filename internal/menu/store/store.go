package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/menu/models"
)

// Store persists menus. Missing records surface as sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, m *models.Menu) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	ListByServiceDate(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]*models.Menu, error)
}
