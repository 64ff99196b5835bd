package seen

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "jobhunt:seen:"

// RedisStore shares dedup state between instances via SETNX keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) FirstSeen(ctx context.Context, link string) (bool, error) {
	first, err := s.client.SetNX(ctx, keyPrefix+link, 1, 0).Result()
	if err != nil {
		return false, fmt.Errorf("marking link seen: %w", err)
	}
	return first, nil
}
