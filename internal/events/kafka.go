package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"refeitorio/internal/platform/config"
)

// KafkaPublisher produces order events to a Kafka topic, keyed by restaurant
// so one restaurant's events stay ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the configured brokers. Returns nil if no
// brokers are configured (publishing disabled), matching the platform redis
// client's contract.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, err
	}

	return &KafkaPublisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Emit produces the event asynchronously. Failures are logged and dropped.
func (p *KafkaPublisher) Emit(ctx context.Context, evt OrderCreated) {
	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal order event", "error", err)
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(evt.RestaurantID),
		Value: payload,
	}
	p.client.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("order event publish failed",
				"order_id", evt.OrderID,
				"error", err,
			)
		}
	})
}

// Close flushes pending records and releases the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
