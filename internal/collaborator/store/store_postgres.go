package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"refeitorio/internal/collaborator/models"
	"refeitorio/internal/platform/postgres"
	"refeitorio/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres is the production Store backed by the collaborators table.
type Postgres struct {
	db *postgres.Client
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, c *models.Collaborator) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO collaborators (id, name, cpf_ciphertext, cpf_blind_index, sector_id)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.CPFCiphertext, c.CPFBlindIndex, c.SectorID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert collaborator: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	return s.scanOne(s.db.QueryRow(ctx, `
		SELECT id, name, cpf_ciphertext, cpf_blind_index, sector_id, created_at, updated_at
		FROM collaborators WHERE id = $1`, id))
}

func (s *Postgres) FindByBlindIndex(ctx context.Context, blindIndex string) (*models.Collaborator, error) {
	return s.scanOne(s.db.QueryRow(ctx, `
		SELECT id, name, cpf_ciphertext, cpf_blind_index, sector_id, created_at, updated_at
		FROM collaborators WHERE cpf_blind_index = $1`, blindIndex))
}

func (s *Postgres) Update(ctx context.Context, c *models.Collaborator) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE collaborators
		SET name = $2, cpf_ciphertext = $3, cpf_blind_index = $4, sector_id = $5, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Name, c.CPFCiphertext, c.CPFBlindIndex, c.SectorID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) scanOne(row pgx.Row) (*models.Collaborator, error) {
	var c models.Collaborator
	err := row.Scan(&c.ID, &c.Name, &c.CPFCiphertext, &c.CPFBlindIndex, &c.SectorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan collaborator: %w", err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
