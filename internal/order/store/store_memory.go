package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/notify"
	"refeitorio/internal/order/models"
	"refeitorio/pkg/platform/sentinel"
)

// SectorResolver maps a collaborator to their sector and unit names for the
// in-memory aggregate. The postgres store does this with a join; tests plug
// in a map-backed resolver.
type SectorResolver func(collaboratorID uuid.UUID) (sector, unit string)

// InMemory is the in-memory Store used by tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.Order
	perDay  map[dayKey]uuid.UUID
	resolve SectorResolver
}

type dayKey struct {
	collaboratorID uuid.UUID
	day            time.Time
}

func NewInMemory(resolve SectorResolver) *InMemory {
	if resolve == nil {
		resolve = func(uuid.UUID) (string, string) { return "", "" }
	}
	return &InMemory{
		byID:    make(map[uuid.UUID]*models.Order),
		perDay:  make(map[dayKey]uuid.UUID),
		resolve: resolve,
	}
}

func (s *InMemory) Create(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey{collaboratorID: o.CollaboratorID, day: models.Day(o.OrderDate)}
	if _, exists := s.perDay[key]; exists {
		return sentinel.ErrConflict
	}

	stored := *o
	stored.CreatedAt = time.Now()
	s.byID[o.ID] = &stored
	s.perDay[key] = o.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *o
	return &out, nil
}

func (s *InMemory) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.perDay, dayKey{collaboratorID: o.CollaboratorID, day: models.Day(o.OrderDate)})
	return nil
}

func (s *InMemory) CurrentOrders(ctx context.Context, restaurantID string, day time.Time) ([]notify.SectorOrders, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := models.Day(day)
	counts := make(map[[2]string]int)
	for _, o := range s.byID {
		if o.RestaurantID.String() != restaurantID || !models.Day(o.OrderDate).Equal(target) {
			continue
		}
		sector, unit := s.resolve(o.CollaboratorID)
		counts[[2]string{sector, unit}]++
	}

	rows := make([]notify.SectorOrders, 0, len(counts))
	for key, n := range counts {
		rows = append(rows, notify.SectorOrders{Sector: key[0], Unit: key[1], Orders: n})
	}
	return rows, nil
}
