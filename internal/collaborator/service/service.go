package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"refeitorio/internal/collaborator/models"
	"refeitorio/internal/collaborator/store"
	"refeitorio/internal/pii"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/sentinel"
)

var tracer = otel.Tracer("refeitorio/collaborator")

// Service owns collaborator business rules, most importantly that the CPF
// ciphertext and blind index are derived and written together, never apart.
type Service struct {
	store  store.Store
	codec  *pii.Codec
	logger *slog.Logger
}

func New(store store.Store, codec *pii.Codec, logger *slog.Logger) *Service {
	return &Service{store: store, codec: codec, logger: logger}
}

// UpdateParams carries the mutable collaborator fields; nil means unchanged.
type UpdateParams struct {
	Name     *string
	CPF      *string
	SectorID *uuid.UUID
}

// Create registers a collaborator. The CPF is immediately converted to its
// dual encoding; the plaintext is not retained.
func (s *Service) Create(ctx context.Context, name, cpf string) (*models.Collaborator, error) {
	ctx, span := tracer.Start(ctx, "collaborator.Create")
	defer span.End()

	if len(name) < 3 || len(name) > 100 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name must be between 3 and 100 characters")
	}
	if cpf == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "cpf is required")
	}

	envelope, err := s.codec.Encrypt(cpf)
	if err != nil {
		return nil, fmt.Errorf("encrypt cpf: %w", err)
	}

	collaborator := &models.Collaborator{
		ID:            uuid.New(),
		Name:          name,
		CPFCiphertext: envelope,
		CPFBlindIndex: s.codec.BlindIndex(cpf),
	}

	if err := s.store.Create(ctx, collaborator); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "collaborator already exists")
		}
		return nil, fmt.Errorf("create collaborator: %w", err)
	}

	s.logger.InfoContext(ctx, "collaborator created", "collaborator_id", collaborator.ID)
	return collaborator, nil
}

// ResolveByCPF finds a collaborator via the blind index. The plaintext CPF is
// digested and discarded; it never reaches the store.
func (s *Service) ResolveByCPF(ctx context.Context, cpf string) (*models.Collaborator, error) {
	ctx, span := tracer.Start(ctx, "collaborator.ResolveByCPF")
	defer span.End()

	collaborator, err := s.store.FindByBlindIndex(ctx, s.codec.BlindIndex(cpf))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "collaborator not found")
		}
		return nil, fmt.Errorf("find collaborator by blind index: %w", err)
	}
	return collaborator, nil
}

// Get returns a collaborator with the CPF decrypted for display. This is the
// only read path that runs Decrypt.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Collaborator, string, error) {
	collaborator, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.New(dErrors.CodeNotFound, "collaborator not found")
		}
		return nil, "", fmt.Errorf("find collaborator: %w", err)
	}

	cpf, err := s.codec.Decrypt(collaborator.CPFCiphertext)
	if err != nil {
		// A stored envelope that fails to open means key or data corruption.
		s.logger.ErrorContext(ctx, "stored cpf envelope failed to decrypt",
			"collaborator_id", id,
			"error", err,
		)
		return nil, "", dErrors.Wrap(dErrors.CodeInternal, "could not decode collaborator record", err)
	}
	return collaborator, cpf, nil
}

// Update applies the given changes. A CPF change re-derives the ciphertext
// and the blind index in the same write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) error {
	collaborator, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "collaborator not found")
		}
		return fmt.Errorf("find collaborator: %w", err)
	}

	if params.Name != nil {
		if len(*params.Name) < 3 || len(*params.Name) > 100 {
			return dErrors.New(dErrors.CodeBadRequest, "name must be between 3 and 100 characters")
		}
		collaborator.Name = *params.Name
	}
	if params.SectorID != nil {
		collaborator.SectorID = params.SectorID
	}
	if params.CPF != nil {
		if *params.CPF == "" {
			return dErrors.New(dErrors.CodeBadRequest, "cpf cannot be empty")
		}
		envelope, err := s.codec.Encrypt(*params.CPF)
		if err != nil {
			return fmt.Errorf("encrypt cpf: %w", err)
		}
		collaborator.CPFCiphertext = envelope
		collaborator.CPFBlindIndex = s.codec.BlindIndex(*params.CPF)
	}

	if err := s.store.Update(ctx, collaborator); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "cpf already registered to another collaborator")
		}
		return fmt.Errorf("update collaborator: %w", err)
	}
	return nil
}
