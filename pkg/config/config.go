package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Password     PasswordConfig
	Pricing      PricingConfig
	Lookup       LookupConfig
	Session      SessionConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"PRINTCRM_APP_ENV" required:"true"`
	Port         string   `envconfig:"PRINTCRM_APP_PORT" default:"3007"`
	LogLevel     string   `envconfig:"PRINTCRM_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"PRINTCRM_LOG_WARN_STACK" default:"false"`
	StaticDir    string   `envconfig:"PRINTCRM_STATIC_DIR"`
	CORSOrigins  []string `envconfig:"PRINTCRM_CORS_ORIGINS"`
	LookupURL    string   `envconfig:"PRINTCRM_LOOKUP_URL" default:"http://localhost:3007"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRINTCRM_DB_DSN"`
	Driver string `envconfig:"PRINTCRM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRINTCRM_DB_HOST"`
	LegacyPort     int    `envconfig:"PRINTCRM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRINTCRM_DB_USER"`
	LegacyPassword string `envconfig:"PRINTCRM_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRINTCRM_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRINTCRM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRINTCRM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRINTCRM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRINTCRM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRINTCRM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was requested.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// RedisConfig is optional: with neither URL nor address set, caching and
// idempotency are disabled.
type RedisConfig struct {
	URL          string        `envconfig:"PRINTCRM_REDIS_URL"`
	Address      string        `envconfig:"PRINTCRM_REDIS_ADDR"`
	Password     string        `envconfig:"PRINTCRM_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRINTCRM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRINTCRM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRINTCRM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRINTCRM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRINTCRM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRINTCRM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PRINTCRM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PRINTCRM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PRINTCRM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PRINTCRM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PRINTCRM_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig holds the fallbacks used when a product has no size limits.
type PricingConfig struct {
	DefaultMaxSide     string `envconfig:"PRINTCRM_PRICING_DEFAULT_MAX_SIDE" default:"3"`
	DefaultExtraSupply string `envconfig:"PRINTCRM_PRICING_DEFAULT_EXTRA_SUPPLY" default:"1"`
}

// MaxSide returns the default max panel side as a decimal.
func (p PricingConfig) MaxSide() decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(p.DefaultMaxSide))
	if err != nil || !v.IsPositive() {
		return decimal.NewFromInt(3)
	}
	return v
}

// ExtraSupply returns the default extra supply multiplier as a decimal.
func (p PricingConfig) ExtraSupply() decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(p.DefaultExtraSupply))
	if err != nil || v.IsNegative() {
		return decimal.NewFromInt(1)
	}
	return v
}

// LoadPricing reads only the pricing group, for tools that do not need the
// rest of the service configuration.
func LoadPricing() (PricingConfig, error) {
	var p PricingConfig
	if err := envconfig.Process(EnvPrefix, &p); err != nil {
		return PricingConfig{}, fmt.Errorf("parsing pricing config: %w", err)
	}
	if err := p.validate(); err != nil {
		return PricingConfig{}, err
	}
	return p, nil
}

func (p PricingConfig) validate() error {
	if v, err := decimal.NewFromString(strings.TrimSpace(p.DefaultMaxSide)); err != nil || !v.IsPositive() {
		return fmt.Errorf("%s must be a positive number", EnvPricingMaxSide)
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(p.DefaultExtraSupply)); err != nil || v.IsNegative() {
		return fmt.Errorf("%s must be a non-negative number", EnvPricingExtraSupply)
	}
	return nil
}

type LookupConfig struct {
	Timeout  time.Duration `envconfig:"PRINTCRM_LOOKUP_TIMEOUT" default:"3s"`
	CacheTTL time.Duration `envconfig:"PRINTCRM_LOOKUP_CACHE_TTL" default:"5m"`
}

type SessionConfig struct {
	IdleTTL     time.Duration `envconfig:"PRINTCRM_SESSION_IDLE_TTL" default:"2h"`
	MaxSessions int           `envconfig:"PRINTCRM_SESSION_MAX" default:"500"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRINTCRM_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
