package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "washline:seq"

// RedisStore backs sequences with Redis INCR.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore builds a store; an empty prefix selects the default namespace.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Next increments and returns the counter for name; the first call yields 1.
func (s *RedisStore) Next(ctx context.Context, name string) (int64, error) {
	name, err := validateName(name)
	if err != nil {
		return 0, err
	}
	value, err := s.client.Incr(ctx, s.key(name)).Result()
	if err != nil {
		return 0, fmt.Errorf("sequence %s: %w", name, err)
	}
	return value, nil
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}
