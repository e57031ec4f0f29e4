package config

const EnvPrefix = "PRINTCRM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "PRINTCRM_APP_ENV"
	EnvPort      = "PRINTCRM_APP_PORT"
	EnvLogLevel  = "PRINTCRM_LOG_LEVEL"
	EnvStaticDir = "PRINTCRM_STATIC_DIR"

	EnvDBDSN    = "PRINTCRM_DB_DSN"
	EnvDBDriver = "PRINTCRM_DB_DRIVER"
	EnvDBHost   = "PRINTCRM_DB_HOST"
	EnvDBUser   = "PRINTCRM_DB_USER"
	EnvDBName   = "PRINTCRM_DB_NAME"

	EnvRedisURL = "PRINTCRM_REDIS_URL"

	EnvPricingMaxSide     = "PRINTCRM_PRICING_DEFAULT_MAX_SIDE"
	EnvPricingExtraSupply = "PRINTCRM_PRICING_DEFAULT_EXTRA_SUPPLY"

	EnvLookupTimeout  = "PRINTCRM_LOOKUP_TIMEOUT"
	EnvLookupCacheTTL = "PRINTCRM_LOOKUP_CACHE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
