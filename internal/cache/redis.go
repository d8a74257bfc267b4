package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "delivery:"

// Client is the slice of go-redis used here. *redis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

var _ Client = (*redis.Client)(nil)
