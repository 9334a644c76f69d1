package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisStore keeps cache values in a remote key-value service, JSON-serialized.
// Entries are written without expiration; the dataset only changes when the
// cache is cleared externally.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewRedisStore(client *redis.Client, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
	}
}

// Read loads the value stored under key into dest. An unparseable stored
// value is treated as absent for parity with the file backend.
func (s *RedisStore) Read(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		s.logger.WithField("key", key).Warnf("Unparseable cache value, treating as absent: %v", err)
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) Write(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Append(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing []json.RawMessage
	if _, err := s.Read(ctx, key, &existing); err != nil {
		return err
	}

	element, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}
	existing = append(existing, element)

	return s.Write(ctx, key, existing)
}
