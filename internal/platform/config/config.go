package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment.
type Config struct {
	Addr        string
	DatabaseURL string

	// CPFKey is the 32-byte master key protecting collaborator CPFs. It is
	// required: the process must not come up able to write records it can
	// never look up again.
	CPFKey []byte

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// OrderPrice is the flat per-order price in centavos.
	OrderPrice int

	Redis RedisConfig
	Kafka KafkaConfig
}

// RedisConfig configures the optional Redis client. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional order-event producer. Empty brokers
// disable it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load builds a Config from environment variables. Missing or malformed
// required values are fatal configuration errors surfaced before the server
// binds a port.
func Load() (Config, error) {
	cfg := Config{
		Addr:            envOr("REFEITORIO_ADDR", ":3333"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  10 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		OrderPrice:      215,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_ORDERS_TOPIC", "orders.created"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	rawKey := os.Getenv("CPF_ENCRYPTION_KEY")
	if rawKey == "" {
		return Config{}, fmt.Errorf("CPF_ENCRYPTION_KEY is required")
	}
	key, err := hex.DecodeString(rawKey)
	if err != nil {
		return Config{}, fmt.Errorf("CPF_ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return Config{}, fmt.Errorf("CPF_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	cfg.CPFKey = key

	if raw := os.Getenv("ORDER_PRICE"); raw != "" {
		price, err := strconv.Atoi(raw)
		if err != nil || price <= 0 {
			return Config{}, fmt.Errorf("ORDER_PRICE must be a positive integer, got %q", raw)
		}
		cfg.OrderPrice = price
	}

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
