package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemory is the process-local List for single-replica deployments and
// tests. Expired entries are pruned lazily on lookup.
type InMemory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *InMemory) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[token] = l.now().Add(ttl)
	return nil
}

func (l *InMemory) IsRevoked(ctx context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.revoked[token]
	if !ok {
		return false, nil
	}
	if l.now().After(until) {
		delete(l.revoked, token)
		return false, nil
	}
	return true, nil
}
