package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/menu/models"
	"refeitorio/pkg/platform/sentinel"
)

// InMemory is the in-memory Store used by tests and local development.
type InMemory struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*models.Menu
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[uuid.UUID]*models.Menu)}
}

func (s *InMemory) Create(ctx context.Context, m *models.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *m
	stored.CreatedAt = time.Now()
	s.byID[m.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (s *InMemory) ListByServiceDate(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Menu
	for _, m := range s.byID {
		if m.RestaurantID != restaurantID {
			continue
		}
		if m.ServiceDate.Before(from) || !m.ServiceDate.Before(to) {
			continue
		}
		copy := *m
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceDate.Before(out[j].ServiceDate) })
	return out, nil
}
