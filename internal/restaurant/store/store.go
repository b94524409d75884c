package store

import (
	"context"

	"github.com/google/uuid"

	"refeitorio/internal/restaurant/models"
)

// Store persists restaurants. Missing records surface as
// sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, r *models.Restaurant) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}
