package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/voxel-content/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore прогоняет общий набор проверок для любой реализации Store
func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "block/1/2/3", []byte{1, 2, 3}))

		got, err := store.Get(ctx, "block/1/2/3")
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, got)

		// возвращается копия
		got[0] = 42
		again, err := store.Get(ctx, "block/1/2/3")
		require.NoError(t, err)
		assert.Equal(t, byte(1), again[0])
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "player/a", []byte("old")))
		require.NoError(t, store.Put(ctx, "player/a", []byte("new")))

		got, err := store.Get(ctx, "player/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("Empty value", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "entity/empty", nil))

		got, err := store.Get(ctx, "entity/empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "block/missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "biome/0", []byte("plains")))
		require.NoError(t, store.Delete(ctx, "biome/0"))
		require.NoError(t, store.Delete(ctx, "biome/0"))

		_, err := store.Get(ctx, "biome/0")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Scan by prefix", func(t *testing.T) {
		for _, k := range []string{"scan/b", "scan/a", "scan/c", "scanner/x", "other/a"} {
			require.NoError(t, store.Put(ctx, k, []byte(k)))
		}

		var keys []string
		err := store.Scan(ctx, "scan/", func(key string, value []byte) error {
			assert.Equal(t, key, string(value))
			keys = append(keys, key)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"scan/a", "scan/b", "scan/c"}, keys)
	})

	t.Run("Scan stops on error", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		err := store.Scan(ctx, "scan/", func(string, []byte) error {
			calls++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, calls)
	})

	t.Run("Scan may write", func(t *testing.T) {
		err := store.Scan(ctx, "scan/", func(key string, _ []byte) error {
			return store.Delete(ctx, key)
		})
		require.NoError(t, err)

		n := 0
		require.NoError(t, store.Scan(ctx, "scan/", func(string, []byte) error { n++; return nil }))
		assert.Zero(t, n)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	testStore(t, store)

	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.Put(context.Background(), "k", nil), ErrClosed)
	_, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "k", nil), context.Canceled)
	assert.Zero(t, store.Len())
}

func TestBadgerStore(t *testing.T) {
	store, err := NewBadgerStore(filepath.Join(t.TempDir(), "world"))
	require.NoError(t, err)
	testStore(t, store)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	_, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBadgerStore_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "world")
	ctx := context.Background()

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "block/0/0/0", []byte{7}))
	require.NoError(t, store.Close())

	store, err = NewBadgerStore(dir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(ctx, "block/0/0/0")
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, got)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	testStore(t, store)

	require.NoError(t, store.Close())
	_, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCompressedStore(t *testing.T) {
	inner := NewMemoryStore()
	store, err := Compressed(inner)
	require.NoError(t, err)
	testStore(t, store)

	ctx := context.Background()
	value := make([]byte, 4096)
	require.NoError(t, store.Put(ctx, "big", value))

	raw, err := inner.Get(ctx, "big")
	require.NoError(t, err)
	assert.Less(t, len(raw), len(value), "значение должно храниться сжатым")

	require.NoError(t, inner.Put(ctx, "broken", []byte("not zstd")))
	_, err = store.Get(ctx, "broken")
	assert.ErrorContains(t, err, "broken")

	require.NoError(t, store.Close())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR не задан")
	}
	store, err := NewRedisStore(context.Background(), addr, "", 0, "voxel-test:"+t.Name()+":")
	require.NoError(t, err)
	defer store.Close()
	testStore(t, store)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN не задан")
	}
	store, err := NewMySQLStore(dsn)
	require.NoError(t, err)
	defer store.Close()
	testStore(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI не задан")
	}
	store, err := NewMongoStore(context.Background(), uri, "voxel_test", t.Name())
	require.NoError(t, err)
	defer store.Close()
	testStore(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{"memory", config.StorageConfig{Backend: "memory"}},
		{"badger", config.StorageConfig{Backend: "badger", Path: t.TempDir()}},
		{"sqlite dir", config.StorageConfig{Backend: "sqlite", Path: t.TempDir()}},
		{"sqlite file", config.StorageConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "w.db")}},
		{"compressed", config.StorageConfig{Backend: "memory", Compression: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.cfg)
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Put(ctx, "k", []byte("v")))
			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)
		})
	}

	_, err := Open(ctx, config.StorageConfig{Backend: "floppy"})
	assert.ErrorContains(t, err, "floppy")
}
