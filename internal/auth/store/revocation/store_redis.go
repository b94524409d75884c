package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "refeitorio/internal/platform/redis"
)

const revokedKeyPrefix = "refeitorio:trl:"

// RedisList is the Redis-backed List. Use it whenever more than one replica
// serves traffic, so a sign-out on one replica holds on all of them.
type RedisList struct {
	client *platformredis.Client
}

func NewRedisList(client *platformredis.Client) *RedisList {
	return &RedisList{client: client}
}

// Revoke marks a token revoked until ttl elapses. Key existence is the
// marker; the value is irrelevant.
func (l *RedisList) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	return l.client.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err()
}

func (l *RedisList) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	_, err := l.client.Get(ctx, revokedKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
