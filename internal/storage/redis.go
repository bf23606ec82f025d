package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-core/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace = "storefront"
	statePrefix  = "state"
)

// Redis persists state blobs in a Redis instance. Keys carry no TTL; a
// persisted session lives until explicit logout or cart clear.
type Redis struct {
	raw *redis.Client
}

// NewRedis bootstraps a Redis-backed blob store and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Redis, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis state store ready")
	}
	return &Redis{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Load returns the blob stored under key, or ErrNotFound.
func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	blob, err := r.raw.Get(ctx, r.stateKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load state blob")
	}
	return blob, nil
}

// Save writes the blob stored under key.
func (r *Redis) Save(ctx context.Context, key string, blob []byte) error {
	if err := r.raw.Set(ctx, r.stateKey(key), blob, 0).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save state blob")
	}
	return nil
}

// Delete removes the blob stored under key, if any.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.raw.Del(ctx, r.stateKey(key)).Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete state blob")
	}
	return nil
}

// Close shuts down the underlying client.
func (r *Redis) Close() error {
	return r.raw.Close()
}

func (r *Redis) stateKey(key string) string {
	return strings.Join([]string{keyNamespace, statePrefix, key}, ":")
}
