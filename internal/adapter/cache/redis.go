package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simaogato/fundflow-backend/internal/domain"
)

// redisCache implements domain.EvaluationCache on top of Redis
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed evaluation cache
// A ttl of zero keeps entries until Redis evicts them
func NewRedisCache(client *redis.Client, ttl time.Duration) domain.EvaluationCache {
	return &redisCache{client: client, ttl: ttl}
}

// Connect opens a client for addr and verifies it with a PING
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// Get retrieves a cached evaluation
func (r *redisCache) Get(ctx context.Context, key string) (*domain.Evaluation, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached evaluation: %w", err)
	}

	var evaluation domain.Evaluation
	if err := json.Unmarshal(raw, &evaluation); err != nil {
		return nil, fmt.Errorf("failed to decode cached evaluation: %w", err)
	}

	return &evaluation, nil
}

// Set stores an evaluation under key
func (r *redisCache) Set(ctx context.Context, key string, evaluation *domain.Evaluation) error {
	raw, err := json.Marshal(evaluation)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}

	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache evaluation: %w", err)
	}

	return nil
}
