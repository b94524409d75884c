package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/collaborator/models"
	"refeitorio/pkg/platform/sentinel"
)

// InMemory is the in-memory Store used by tests and local development.
type InMemory struct {
	mu           sync.RWMutex
	byID         map[uuid.UUID]*models.Collaborator
	byBlindIndex map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:         make(map[uuid.UUID]*models.Collaborator),
		byBlindIndex: make(map[string]uuid.UUID),
	}
}

func (s *InMemory) Create(ctx context.Context, c *models.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byBlindIndex[c.CPFBlindIndex]; exists {
		return sentinel.ErrConflict
	}
	now := time.Now()
	stored := *c
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.byID[c.ID] = &stored
	s.byBlindIndex[c.CPFBlindIndex] = c.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *InMemory) FindByBlindIndex(ctx context.Context, blindIndex string) (*models.Collaborator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byBlindIndex[blindIndex]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *InMemory) Update(ctx context.Context, c *models.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[c.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if other, taken := s.byBlindIndex[c.CPFBlindIndex]; taken && other != c.ID {
		return sentinel.ErrConflict
	}

	delete(s.byBlindIndex, current.CPFBlindIndex)
	stored := *c
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now()
	s.byID[c.ID] = &stored
	s.byBlindIndex[c.CPFBlindIndex] = c.ID
	return nil
}
