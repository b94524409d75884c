package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client wraps a pgx connection pool with health checking capabilities.
type Client struct {
	*pgxpool.Pool
}

// New creates a connection pool from a DATABASE_URL style DSN and verifies it
// with a ping before returning.
func New(ctx context.Context, url string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &Client{Pool: pool}, nil
}

// Health checks if the database connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx)
}
