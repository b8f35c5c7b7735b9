package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/sharepeak/internal/domain/models"
)

const keyPrefix = "sharepeak:report:"

// RedisCache stores reports as JSON with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(source string) string { return keyPrefix + source }

func (c *RedisCache) Get(ctx context.Context, source string) ([]models.MaxPrice, bool, error) {
	data, err := c.client.Get(ctx, key(source)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get report from redis: %w", err)
	}

	var entries []models.MaxPrice
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return entries, true, nil
}

func (c *RedisCache) Set(ctx context.Context, source string, entries []models.MaxPrice) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, key(source), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set report in redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, source string) error {
	if err := c.client.Del(ctx, key(source)).Err(); err != nil {
		return fmt.Errorf("failed to delete report from redis: %w", err)
	}
	return nil
}
