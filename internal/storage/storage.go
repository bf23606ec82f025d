package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

// ErrNotFound is returned by Load when no blob exists under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable local storage surface the state containers persist
// through. Each container owns one namespaced key and writes its whole
// serialized state on every committed mutation.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open selects the configured backend.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, error) {
	switch cfg.Storage.NormalizedDriver() {
	case config.StorageDriverSQLite:
		return NewSQLite(ctx, cfg.Storage, logg)
	case config.StorageDriverRedis:
		return NewRedis(ctx, cfg.Redis, logg)
	case config.StorageDriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
