package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Redis   RedisConfig
	Auth    AuthConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects and tunes the durable local storage backend.
type StorageConfig struct {
	Driver     string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"STOREFRONT_STORAGE_SQLITE_PATH" default:"storefront.db"`
}

func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

func (s *StorageConfig) validate() error {
	switch s.NormalizedDriver() {
	case StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q (expected %s, %s or %s)",
			s.Driver, StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig tunes the mocked backend behind the auth store.
type AuthConfig struct {
	// SimulatedLatency is the artificial wait applied to login/register,
	// standing in for a network round trip. Zero disables the wait.
	SimulatedLatency time.Duration `envconfig:"STOREFRONT_AUTH_SIMULATED_LATENCY" default:"1s"`
}
