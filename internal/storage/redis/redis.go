// Package redis provides Redis character persistence using go-redis v9.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/blb/internal/config"
)

// NewClient connects to Redis and verifies the connection.
//
// Precondition: cfg must have passed validation.
// Postcondition: Returns a connected client or a non-nil error; the client is closed on error.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := Health(ctx, client, 5*time.Second); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// Health checks that Redis responds within the given timeout.
func Health(ctx context.Context, client goredis.UniversalClient, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
