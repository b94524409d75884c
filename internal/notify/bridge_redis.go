package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const snapshotChannelPrefix = "refeitorio:snapshots:"

// RedisBridge relays snapshots between replicas over redis pub/sub so a
// viewer connected to any instance sees orders accepted by every instance.
type RedisBridge struct {
	client   *redis.Client
	registry *Registry
	logger   *slog.Logger
}

func NewRedisBridge(client *redis.Client, registry *Registry, logger *slog.Logger) *RedisBridge {
	return &RedisBridge{client: client, registry: registry, logger: logger}
}

// Publish sends a snapshot to the restaurant's channel. Every replica,
// including the publisher, receives it through Run.
func (b *RedisBridge) Publish(ctx context.Context, restaurantID string, payload []byte) error {
	return b.client.Publish(ctx, snapshotChannelPrefix+restaurantID, payload).Err()
}

// Run subscribes to all snapshot channels and feeds received payloads into
// the local registry. It blocks until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, snapshotChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			restaurantID := strings.TrimPrefix(msg.Channel, snapshotChannelPrefix)
			if restaurantID == "" {
				continue
			}
			b.registry.Broadcast(ctx, restaurantID, []byte(msg.Payload))
		}
	}
}
