package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"refeitorio/internal/notify"
	"refeitorio/internal/order/models"
	"refeitorio/internal/platform/postgres"
	"refeitorio/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres is the production Store backed by the orders table. The
// one-order-per-day rule is enforced by the orders_one_per_day unique index,
// so concurrent inserts for the same collaborator cannot both win.
type Postgres struct {
	db *postgres.Client
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, o *models.Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (id, collaborator_id, menu_id, restaurant_id, order_date, price)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.CollaboratorID, o.MenuID, o.RestaurantID, models.Day(o.OrderDate), o.Price,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRow(ctx, `
		SELECT id, collaborator_id, menu_id, restaurant_id, order_date, price, created_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CollaboratorID, &o.MenuID, &o.RestaurantID, &o.OrderDate, &o.Price, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CurrentOrders(ctx context.Context, restaurantID string, day time.Time) ([]notify.SectorOrders, error) {
	start := models.Day(day)
	end := start.Add(24 * time.Hour)

	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(sec.name, ''), COALESCE(u.name, ''), COUNT(o.id)
		FROM orders o
		JOIN collaborators c ON c.id = o.collaborator_id
		LEFT JOIN sectors sec ON sec.id = c.sector_id
		LEFT JOIN units u ON u.id = sec.unit_id
		WHERE o.restaurant_id = $1 AND o.order_date >= $2 AND o.order_date < $3
		GROUP BY sec.name, u.name`,
		restaurantID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer rows.Close()

	var out []notify.SectorOrders
	for rows.Next() {
		var row notify.SectorOrders
		if err := rows.Scan(&row.Sector, &row.Unit, &row.Orders); err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate rows: %w", err)
	}
	return out, nil
}
