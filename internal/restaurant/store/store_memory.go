package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/restaurant/models"
	"refeitorio/pkg/platform/sentinel"
)

// InMemory is the in-memory Store used by tests and local development.
type InMemory struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*models.Restaurant
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[uuid.UUID]*models.Restaurant)}
}

func (s *InMemory) Create(ctx context.Context, r *models.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	stored.CreatedAt = time.Now()
	s.byID[r.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *r
	return &out, nil
}
