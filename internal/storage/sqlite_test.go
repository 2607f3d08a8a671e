package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "storage.db")
	repo, db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repo
}

func TestSQLiteRepository_GetMissingKeyReturnsNil(t *testing.T) {
	repo := openRepo(t)

	data, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestSQLiteRepository_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)

	require.NoError(t, repo.Set(ctx, "access_token", []byte("t1")))
	data, err := repo.Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, []byte("t1"), data)

	require.NoError(t, repo.Set(ctx, "access_token", []byte("t2")))
	data, err = repo.Get(ctx, "access_token")
	require.NoError(t, err)
	require.Equal(t, []byte("t2"), data)
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)

	require.NoError(t, repo.Set(ctx, "device_id", []byte("d1")))
	require.NoError(t, repo.Delete(ctx, "device_id"))

	data, err := repo.Get(ctx, "device_id")
	require.NoError(t, err)
	require.Nil(t, data)

	// Deleting a missing key is not an error.
	require.NoError(t, repo.Delete(ctx, "device_id"))
}

func TestSQLiteRepository_ListAndClear(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)

	require.NoError(t, repo.Set(ctx, "a", []byte("1")))
	require.NoError(t, repo.Set(ctx, "b", []byte("2")))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, all)

	require.NoError(t, repo.Clear(ctx))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestOpen_MigratesIdempotently(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "storage.db")

	repo1, db1, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, repo1.Set(ctx, "k", []byte("v")))
	require.NoError(t, db1.Close())

	// Reopening the same file reruns migrations without harm and keeps data.
	repo2, db2, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer db2.Close()

	data, err := repo2.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), data)
}
