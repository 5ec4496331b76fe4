package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/noah-isme/sports-school-ops/pkg/storage"

	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

// FileSnapshotRepository keeps each collection as <key>.json under the storage directory.
type FileSnapshotRepository struct {
	storage *storage.LocalStorage
}

// NewFileSnapshotRepository constructs the repository.
func NewFileSnapshotRepository(store *storage.LocalStorage) *FileSnapshotRepository {
	return &FileSnapshotRepository{storage: store}
}

// Get returns the raw JSON for key or ErrCacheMiss when nothing was saved yet.
func (r *FileSnapshotRepository) Get(_ context.Context, key string) ([]byte, error) {
	data, err := r.storage.Read(key + ".json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the stored JSON for key.
func (r *FileSnapshotRepository) Put(_ context.Context, key string, value []byte) error {
	if err := r.storage.Save(key+".json", value); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	return nil
}
