package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

type snapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// PersistenceService is the local persistence cache: JSON snapshots of each
// collection keyed by name, read on startup and written through on every mutation.
type PersistenceService struct {
	store   snapshotStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPersistenceService constructs the cache over a snapshot backend.
func NewPersistenceService(store snapshotStore, metrics *MetricsService, logger *zap.Logger) *PersistenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceService{store: store, metrics: metrics, logger: logger}
}

// Load decodes the snapshot under key into dest. It reports false, leaving dest
// untouched, when the key is missing or the stored value is corrupt.
func (s *PersistenceService) Load(ctx context.Context, key string, dest interface{}) bool {
	start := time.Now()
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.ObserveStoreOperation("get", "miss", time.Since(start))
			return false
		}
		s.metrics.ObserveStoreOperation("get", "error", time.Since(start))
		s.logger.Warn("snapshot load failed", zap.String("key", key), zap.Error(err))
		return false
	}
	s.metrics.ObserveStoreOperation("get", "hit", time.Since(start))

	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("snapshot corrupt, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Save encodes value and writes it under key.
func (s *PersistenceService) Save(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}
	start := time.Now()
	if err := s.store.Put(ctx, key, payload); err != nil {
		s.metrics.ObserveStoreOperation("put", "error", time.Since(start))
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	s.metrics.ObserveStoreOperation("put", "ok", time.Since(start))
	return nil
}

// loadCollection returns the stored slice or an empty one.
func loadCollection[T any](ctx context.Context, p *PersistenceService, key string) []T {
	var items []T
	if !p.Load(ctx, key, &items) || items == nil {
		return []T{}
	}
	return items
}
