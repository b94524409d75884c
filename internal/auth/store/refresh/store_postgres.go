package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"refeitorio/internal/auth/models"
	"refeitorio/internal/platform/postgres"
	"refeitorio/pkg/platform/sentinel"
)

// Postgres is the production Store backed by the refresh_tokens table.
type Postgres struct {
	db *postgres.Client
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, t *models.RefreshToken) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, device, expires_at)
		VALUES ($1, $2, $3, $4)`,
		t.Token, t.UserID, t.Device, t.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (s *Postgres) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := s.db.QueryRow(ctx, `
		SELECT token, user_id, device, expires_at, created_at
		FROM refresh_tokens WHERE token = $1`, token,
	).Scan(&t.Token, &t.UserID, &t.Device, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if time.Now().After(t.ExpiresAt) {
		return nil, sentinel.ErrExpired
	}
	return &t, nil
}

func (s *Postgres) Delete(ctx context.Context, token string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
