package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetGetUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, "k", []byte("old")))
	require.NoError(t, db.Set(ctx, "k", []byte("new")))

	v, err := db.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestGetMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	v, err := db.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDeleteAndKeys(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Set(ctx, "b", []byte("2")))
	require.NoError(t, db.Set(ctx, "a", []byte("1")))

	keys, err := db.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, db.Delete(ctx, "a"))
	require.NoError(t, db.Delete(ctx, "missing"))
	keys, err = db.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestOpenFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "k", []byte("v")))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestOpenMigrationFailure(t *testing.T) {
	orig := gooseUp
	gooseUp = func(context.Context, *sql.DB) error { return errors.New("boom") }
	t.Cleanup(func() { gooseUp = orig })

	_, err := Open(context.Background(), ":memory:")
	require.ErrorContains(t, err, "migrate state db: boom")
}
