package refresh

import (
	"context"

	"refeitorio/internal/auth/models"
)

// Store persists opaque refresh tokens. Missing records surface as
// sentinel.ErrNotFound; records past their expiry as sentinel.ErrExpired.
type Store interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
