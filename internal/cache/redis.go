package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"uniswap-relay/internal/models"
)

const (
	recentSwapsKey = "swaps:recent"
	maxRecentSwaps = 100
)

// RedisCache keeps a capped list of the most recent swap events for the API.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisCache(addr string, logger *logrus.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	return NewRedisCacheFromClient(client, logger)
}

// NewRedisCacheFromClient wraps an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

// AddRecentSwap pushes a swap onto the recent list and trims it to the cap.
func (r *RedisCache) AddRecentSwap(ctx context.Context, swap *models.SwapEvent) error {
	data, err := json.Marshal(swap)
	if err != nil {
		return fmt.Errorf("marshal swap event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, recentSwapsKey, data)
	pipe.LTrim(ctx, recentSwapsKey, 0, maxRecentSwaps-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add recent swap: %w", err)
	}
	return nil
}

// GetRecentSwaps returns up to limit swaps, newest first.
func (r *RedisCache) GetRecentSwaps(ctx context.Context, limit int64) ([]*models.SwapEvent, error) {
	if limit <= 0 || limit > maxRecentSwaps {
		limit = maxRecentSwaps
	}

	vals, err := r.client.LRange(ctx, recentSwapsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("get recent swaps: %w", err)
	}

	swaps := make([]*models.SwapEvent, 0, len(vals))
	for _, v := range vals {
		var swap models.SwapEvent
		if err := json.Unmarshal([]byte(v), &swap); err != nil {
			// A corrupt entry should not hide the rest of the list.
			r.logger.WithError(err).Warn("skipping undecodable cached swap")
			continue
		}
		swaps = append(swaps, &swap)
	}
	return swaps, nil
}

// Ping checks if the cache is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the cache connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
