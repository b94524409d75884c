package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"refeitorio/internal/menu/models"
	"refeitorio/internal/platform/postgres"
	"refeitorio/pkg/platform/sentinel"
)

// Postgres is the production Store backed by the menus table.
type Postgres struct {
	db *postgres.Client
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, m *models.Menu) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO menus (id, name, description, allergens, service_date, restaurant_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Description, m.Allergens, m.ServiceDate, m.RestaurantID,
	)
	if err != nil {
		return fmt.Errorf("insert menu: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var m models.Menu
	err := s.db.QueryRow(ctx, `
		SELECT id, name, description, allergens, service_date, restaurant_id, created_at
		FROM menus WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.Allergens, &m.ServiceDate, &m.RestaurantID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find menu: %w", err)
	}
	return &m, nil
}

func (s *Postgres) ListByServiceDate(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]*models.Menu, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, allergens, service_date, restaurant_id, created_at
		FROM menus
		WHERE restaurant_id = $1 AND service_date >= $2 AND service_date < $3
		ORDER BY service_date`,
		restaurantID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	defer rows.Close()

	var out []*models.Menu
	for rows.Next() {
		var m models.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Allergens, &m.ServiceDate, &m.RestaurantID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return out, nil
}
