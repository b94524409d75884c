package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/auth/models"
	"refeitorio/pkg/platform/sentinel"
)

// InMemory is the in-memory Store used by tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *InMemory) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, taken := s.byEmail[email]; taken {
		return sentinel.ErrConflict
	}

	stored := *u
	stored.CreatedAt = time.Now()
	s.byID[u.ID] = &stored
	s.byEmail[email] = u.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}
