package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CounterKey is the Redis key holding the visit counter
const CounterKey = "visits"

// CounterStore implements CounterStore using Redis
type CounterStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewCounterStore creates a new Redis counter store on CounterKey
func NewCounterStore(client *redis.Client, logger *zap.Logger) *CounterStore {
	return &CounterStore{
		client: client,
		key:    CounterKey,
		logger: logger,
	}
}

// Ping checks the Redis connection (ports.CounterStore interface)
func (s *CounterStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Increment atomically increments the counter (ports.CounterStore interface)
func (s *CounterStore) Increment(ctx context.Context) (int64, error) {
	visits, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", s.key, err)
	}

	s.logger.Debug("counter incremented",
		zap.String("key", s.key),
		zap.Int64("visits", visits))

	return visits, nil
}

// Current reads the counter without changing it (ports.CounterStore interface)
func (s *CounterStore) Current(ctx context.Context) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", s.key, err)
	}

	return value, true, nil
}
