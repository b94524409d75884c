package store

import (
	"context"

	"github.com/google/uuid"

	"refeitorio/internal/collaborator/models"
)

// Store persists collaborators. Implementations return sentinel.ErrNotFound
// for missing records and sentinel.ErrConflict when the blind index is
// already taken.
type Store interface {
	Create(ctx context.Context, c *models.Collaborator) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error)
	FindByBlindIndex(ctx context.Context, blindIndex string) (*models.Collaborator, error)
	Update(ctx context.Context, c *models.Collaborator) error
}
