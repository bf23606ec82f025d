package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Load(ctx, "cart-storage")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "cart-storage", []byte(`{"items":[]}`)))

	blob, err := store.Load(ctx, "cart-storage")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"items":[]}`), blob)

	require.NoError(t, store.Delete(ctx, "cart-storage"))
	_, err = store.Load(ctx, "cart-storage")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Save(ctx, "k", []byte("abc")))

	blob, err := store.Load(ctx, "k")
	require.NoError(t, err)
	blob[0] = 'z'

	again, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{
		Driver:     config.StorageDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "state.db"),
	}

	store, err := NewSQLite(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Load(ctx, "auth-storage")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "auth-storage", []byte(`{"isAuthenticated":false}`)))
	require.NoError(t, store.Save(ctx, "auth-storage", []byte(`{"isAuthenticated":true}`)))

	blob, err := store.Load(ctx, "auth-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isAuthenticated":true}`, string(blob))

	require.NoError(t, store.Delete(ctx, "auth-storage"))
	_, err = store.Load(ctx, "auth-storage")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{
		Driver:     config.StorageDriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "state.db"),
	}

	store, err := NewSQLite(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Save(ctx, "cart-storage", []byte("cart")))
	require.NoError(t, store.Save(ctx, "auth-storage", []byte("auth")))
	require.NoError(t, store.Delete(ctx, "cart-storage"))

	blob, err := store.Load(ctx, "auth-storage")
	require.NoError(t, err)
	assert.Equal(t, []byte("auth"), blob)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageDriverMemory

	store, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, ok := store.(*Memory)
	assert.True(t, ok, "expected memory adapter")
}
