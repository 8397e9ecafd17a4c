// internal/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/merchkit/storefront-backend/internal/config"
)

// Client wraps the Redis connection used for guest cart storage and
// cart change broadcasts.
type Client struct {
	rdb *redis.Client
}

func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("Redis connection established successfully")

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close() {
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}
}

// Redis returns the underlying *redis.Client.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
