package config

const EnvPrefix = "FOODHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "FOODHUB_APP_ENV"
	EnvPort         = "FOODHUB_APP_PORT"
	EnvLogLevel     = "FOODHUB_LOG_LEVEL"
	EnvDBDSN        = "FOODHUB_DB_DSN"
	EnvDBHost       = "FOODHUB_DB_HOST"
	EnvDBUser       = "FOODHUB_DB_USER"
	EnvDBName       = "FOODHUB_DB_NAME"
	EnvRedisURL     = "FOODHUB_REDIS_URL"
	EnvJWTSecret    = "FOODHUB_JWT_SECRET"
	EnvJWTIssuer    = "FOODHUB_JWT_ISSUER"
	EnvJWTExpMins   = "FOODHUB_JWT_EXPIRATION_MINUTES"
	EnvServiceFee   = "FOODHUB_CHECKOUT_SERVICE_FEE"
	EnvOrderPrefix  = "FOODHUB_CHECKOUT_ORDER_PREFIX"
	EnvUseSQLite    = "FOODHUB_USE_SQLITE"
	EnvAutoMigrate  = "FOODHUB_AUTO_MIGRATE"
	EnvOutboxPrefix = "FOODHUB_OUTBOX_CHANNEL_PREFIX"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
