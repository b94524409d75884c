package refresh

import (
	"context"
	"sync"
	"time"

	"refeitorio/internal/auth/models"
	"refeitorio/pkg/platform/sentinel"
)

// InMemory is the in-memory Store used by tests and local development.
type InMemory struct {
	mu     sync.RWMutex
	tokens map[string]*models.RefreshToken
}

func NewInMemory() *InMemory {
	return &InMemory{tokens: make(map[string]*models.RefreshToken)}
}

func (s *InMemory) Create(ctx context.Context, t *models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *t
	stored.CreatedAt = time.Now()
	s.tokens[t.Token] = &stored
	return nil
}

func (s *InMemory) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if time.Now().After(t.ExpiresAt) {
		return nil, sentinel.ErrExpired
	}
	out := *t
	return &out, nil
}

func (s *InMemory) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[token]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.tokens, token)
	return nil
}
