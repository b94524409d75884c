package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"refeitorio/internal/auth/models"
	"refeitorio/internal/platform/postgres"
	"refeitorio/pkg/platform/sentinel"
)

// Postgres is the production Store backed by the users table.
type Postgres struct {
	db *postgres.Client
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, u *models.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.scanOne(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE id = $1`, id)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanOne(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1`, strings.ToLower(email))
}

func (s *Postgres) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
