// internal/storage/redis_store.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStore(client redis.UniversalClient, name string) *RedisStore {
	if name == "" {
		name = DefaultKey
	}
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("storefront:credential:%s", name),
	}
}

func (s *RedisStore) Get(ctx context.Context) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read credential from redis: %w", err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, value string) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store credential in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete credential from redis: %w", err)
	}
	return nil
}
