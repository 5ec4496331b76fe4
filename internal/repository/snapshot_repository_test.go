package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
	"github.com/noah-isme/sports-school-ops/pkg/storage"
)

func TestFileSnapshotRepositoryRoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileSnapshotRepository(store)
	ctx := context.Background()

	_, err = repo.Get(ctx, "students")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	require.NoError(t, repo.Put(ctx, "students", []byte(`[{"id":"aluno-ana-a"}]`)))
	got, err := repo.Get(ctx, "students")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"aluno-ana-a"}]`, string(got))
}

func TestRedisSnapshotRepository(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	repo := NewRedisSnapshotRepository(client, "dashboard:", nil)
	defer repo.Close()
	ctx := context.Background()

	_, err := repo.Get(ctx, "classes")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	require.NoError(t, repo.Put(ctx, "classes", []byte(`[]`)))
	raw, err := srv.Get("dashboard:classes")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.Zero(t, srv.TTL("dashboard:classes"))

	got, err := repo.Get(ctx, "classes")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestRedisSnapshotRepositoryWithoutClient(t *testing.T) {
	repo := NewRedisSnapshotRepository(nil, "", nil)
	_, err := repo.Get(context.Background(), "users")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Put(context.Background(), "users", []byte(`[]`)))
}

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestPostgresSnapshotRepositoryGet(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "updated_at"}).
		AddRow("settings", `{"script_url":"https://script"}`, time.Now())
	mock.ExpectQuery("SELECT key, value, updated_at FROM dashboard_snapshots").
		WithArgs("settings").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"script_url":"https://script"}`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db)

	mock.ExpectQuery("SELECT key, value, updated_at FROM dashboard_snapshots").
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	_, err := repo.Get(context.Background(), "users")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestPostgresSnapshotRepositoryPut(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewPostgresSnapshotRepository(db)

	mock.ExpectExec("INSERT INTO dashboard_snapshots").
		WithArgs("attendance", `[]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Put(context.Background(), "attendance", []byte(`[]`)))
	require.NoError(t, mock.ExpectationsWereMet())
}
