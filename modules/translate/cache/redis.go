package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Store = (*RedisStore)(nil)

// RedisStore shares translations between instances. Entries never expire;
// the size ceiling is the server's maxmemory eviction policy.
type RedisStore struct {
	l *zap.Logger

	client *redis.Client
	prefix string
}

func NewRedisStore(redisURL string, prefix string, l *zap.Logger) (*RedisStore, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(redisOpts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	l.Info("translation cache connected to redis", zap.String("addr", redisOpts.Addr))

	return &RedisStore{
		l:      l,
		client: client,
		prefix: prefix,
	}, nil
}

func (s *RedisStore) cacheKey(key string) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, "translate", key)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.cacheKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, entry Entry) error {
	if err := s.client.Set(ctx, s.cacheKey(entry.Key), entry.Value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", entry.Key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
