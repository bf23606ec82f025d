package config

// EnvPrefix scopes every variable envconfig processes.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Storage driver identifiers accepted by StorageConfig.Driver.
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// Environment variable names referenced outside envconfig tags.
const (
	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvLogLevel      = "STOREFRONT_LOG_LEVEL"
	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvSQLitePath    = "STOREFRONT_STORAGE_SQLITE_PATH"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
)
