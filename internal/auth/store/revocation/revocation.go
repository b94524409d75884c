// Package revocation tracks revoked refresh tokens until they would have
// expired anyway. Checks run on every refresh, so implementations must stay
// cheap.
package revocation

import (
	"context"
	"errors"
	"time"
)

// List is a token revocation list keyed by the opaque refresh token.
type List interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	return nil
}
