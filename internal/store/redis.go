package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisSubstrate persists collections as plain string keys in Redis. It
// expects a connected *redis.Client and translates redis.Nil to
// ErrKeyNotFound.
type RedisSubstrate struct {
	client *redis.Client
}

func NewRedisSubstrate(client *redis.Client) *RedisSubstrate {
	return &RedisSubstrate{client: client}
}

func (r *RedisSubstrate) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *RedisSubstrate) Set(ctx context.Context, key string, value string) error {
	// Collections are durable state, not a cache: no expiration.
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisSubstrate) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ping checks the health of the Redis server.
func (r *RedisSubstrate) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
