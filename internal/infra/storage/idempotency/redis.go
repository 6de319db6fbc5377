package idempotency

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var pendingMarker = []byte("__pending__")

// RedisStore хранилище ключей идемпотентности в Redis (TTL на стороне Redis)
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore создает хранилище поверх готового клиента
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("%w: Get - %v", ErrStore, err)
	}

	if bytes.Equal(value, pendingMarker) {
		return Entry{Pending: true}, true, nil
	}
	return Entry{Value: value}, true, nil
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, pendingMarker, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - %v", ErrStore, err)
	}
	return ok, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	ok, err := s.client.SetXX(ctx, s.prefix+key, value, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: Save - %v", ErrStore, err)
	}
	if !ok {
		return ErrNotReserved
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: Release - %v", ErrStore, err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (s *RedisStore) Close() error {
	return s.client.Close()
}
