package models

import (
	"time"

	"github.com/google/uuid"
)

// Collaborator is an employee who can order meals. The CPF never appears in
// plaintext: CPFCiphertext is the recoverable AEAD envelope and CPFBlindIndex
// the deterministic digest used for lookups. The two are always written
// together; a half-updated pair would make the record unreachable.
type Collaborator struct {
	ID            uuid.UUID
	Name          string
	CPFCiphertext string
	CPFBlindIndex string
	SectorID      *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
