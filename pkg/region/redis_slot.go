package region

import (
	// Standard libraries
	"context"
	"errors"
	"fmt"
	"time"

	// External utilities
	"github.com/redis/go-redis/v9"
)

// RedisSlot stores one visitor's decision under "amazonStoreRegion:<visitor>".
type RedisSlot struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisSlot - binds a slot to visitor; ttl also becomes the key expiry
func NewRedisSlot(client redis.UniversalClient, visitor string, ttl time.Duration) *RedisSlot {
	return &RedisSlot{
		client: client,
		key:    fmt.Sprintf("%s:%s", CacheKey, visitor),
		ttl:    ttl,
	}
}

// Key returns the redis key used by the slot
func (r *RedisSlot) Key() string {
	return r.key
}

// Get fetches the value; redis.Nil maps to ErrSlotEmpty
func (r *RedisSlot) Get(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return val, nil
}

// Set overwrites the value and refreshes its expiry
func (r *RedisSlot) Set(ctx context.Context, value string) error {
	if err := r.client.Set(ctx, r.key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

// ConnectRedis parses url, connects and pings with a short timeout
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("can't parse the REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("couldn't ping Redis: %w", err)
	}
	return client, nil
}
