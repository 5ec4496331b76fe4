package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

// RedisSnapshotRepository stores collection snapshots as plain redis strings without expiry.
type RedisSnapshotRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisSnapshotRepository constructs a redis-backed snapshot store.
func NewRedisSnapshotRepository(client *redis.Client, prefix string, logger *zap.Logger) *RedisSnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSnapshotRepository{client: client, prefix: prefix, logger: logger}
}

// Get retrieves the raw snapshot stored under key.
func (r *RedisSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Put stores the snapshot under key, replacing any previous value.
func (r *RedisSnapshotRepository) Put(ctx context.Context, key string, value []byte) error {
	if r.client == nil {
		r.logger.Warn("redis snapshot store without client, dropping write", zap.String("key", key))
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisSnapshotRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
