package user

import (
	"context"

	"github.com/google/uuid"

	"refeitorio/internal/auth/models"
)

// Store persists back-office users. Missing records surface as
// sentinel.ErrNotFound; duplicate emails as sentinel.ErrConflict.
type Store interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
