package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"refeitorio/internal/platform/postgres"
	"refeitorio/internal/restaurant/models"
	"refeitorio/pkg/platform/sentinel"
)

// Postgres is the production Store backed by the restaurants table.
type Postgres struct {
	db *postgres.Client
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, r *models.Restaurant) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO restaurants (id, name, manager_id, unit_id)
		VALUES ($1, $2, $3, $4)`,
		r.ID, r.Name, r.ManagerID, r.UnitID,
	)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var r models.Restaurant
	err := s.db.QueryRow(ctx, `
		SELECT id, name, manager_id, unit_id, created_at
		FROM restaurants WHERE id = $1`, id,
	).Scan(&r.ID, &r.Name, &r.ManagerID, &r.UnitID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return &r, nil
}
