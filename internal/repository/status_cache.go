package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serenity-care/wellness-api/internal/domain"
)

const statusKeyPrefix = "account_status:"

// StatusCache remembers whether an account is active for a short while.
type StatusCache interface {
	Get(ctx context.Context, role domain.Role, id string) (active bool, found bool, err error)
	Set(ctx context.Context, role domain.Role, id string, active bool) error
	Invalidate(ctx context.Context, role domain.Role, id string) error
}

type redisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatusCache returns a Redis backed cache.
func NewRedisStatusCache(client *redis.Client, ttl time.Duration) StatusCache {
	return &redisStatusCache{client: client, ttl: ttl}
}

func (c *redisStatusCache) Get(ctx context.Context, role domain.Role, id string) (bool, bool, error) {
	val, err := c.client.Get(ctx, statusKey(role, id)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

func (c *redisStatusCache) Set(ctx context.Context, role domain.Role, id string, active bool) error {
	val := "0"
	if active {
		val = "1"
	}
	return c.client.Set(ctx, statusKey(role, id), val, c.ttl).Err()
}

func (c *redisStatusCache) Invalidate(ctx context.Context, role domain.Role, id string) error {
	return c.client.Del(ctx, statusKey(role, id)).Err()
}

func statusKey(role domain.Role, id string) string {
	return statusKeyPrefix + string(role) + ":" + id
}
