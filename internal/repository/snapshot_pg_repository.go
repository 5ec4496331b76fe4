package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

type snapshotRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostgresSnapshotRepository persists collection snapshots in the dashboard_snapshots table.
type PostgresSnapshotRepository struct {
	db *sqlx.DB
}

// NewPostgresSnapshotRepository constructs the repository.
func NewPostgresSnapshotRepository(db *sqlx.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Get fetches the snapshot for key.
func (r *PostgresSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT key, value, updated_at FROM dashboard_snapshots WHERE key = $1`
	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	return []byte(row.Value), nil
}

// Put inserts or replaces the snapshot for key.
func (r *PostgresSnapshotRepository) Put(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO dashboard_snapshots (key, value, updated_at)
VALUES (:key, :value, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	row := snapshotRow{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", key, err)
	}
	return nil
}
