package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/annel0/voxel-content/internal/config"
	"github.com/annel0/voxel-content/internal/logging"
)

// Open создаёт хранилище по конфигурации.
// При cfg.Compression результат оборачивается в CompressedStore.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	logger := logging.GetComponentLogger("storage")
	backend := cfg.GetBackend()

	var (
		store Store
		err   error
	)
	switch backend {
	case "memory":
		store = NewMemoryStore()
	case "badger":
		path := cfg.Path
		if path != "" {
			path = filepath.Join(path, "world")
		}
		store, err = NewBadgerStore(path)
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		} else if filepath.Ext(path) == "" {
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, fmt.Errorf("не удалось создать каталог %s: %w", path, err)
			}
			path = filepath.Join(path, "world.db")
		}
		store, err = NewSQLiteStore(path)
	case "mysql":
		store, err = NewMySQLStore(cfg.DSN)
	case "redis":
		store, err = NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	case "mongo":
		store, err = NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Compression {
		compressed, err := Compressed(store)
		if err != nil {
			store.Close()
			return nil, err
		}
		store = compressed
	}

	logger.Info("Хранилище %s открыто (path=%q, compression=%v)", backend, cfg.Path, cfg.Compression)
	return store, nil
}
