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
	JWT          JWTConfig
	Checkout     CheckoutConfig
	Orders       OrdersConfig
	RateLimit    RateLimitConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FOODHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODHUB_DB_DSN"`
	Driver string `envconfig:"FOODHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODHUB_DB_USER"`
	LegacyPassword string `envconfig:"FOODHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODHUB_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"FOODHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FOODHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FOODHUB_JWT_ISSUER" default:"foodhub"`
	ExpirationMinutes int    `envconfig:"FOODHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CheckoutConfig carries the pricing and numbering knobs of order placement.
type CheckoutConfig struct {
	ServiceFee          string `envconfig:"FOODHUB_CHECKOUT_SERVICE_FEE" default:"10.00"`
	OrderNumberPrefix   string `envconfig:"FOODHUB_CHECKOUT_ORDER_PREFIX" default:"ORD"`
	OrderNumberAttempts int    `envconfig:"FOODHUB_CHECKOUT_ORDER_NUMBER_ATTEMPTS" default:"3"`
}

// Fee returns the per-vendor service fee. Load has already validated it.
func (c CheckoutConfig) Fee() decimal.Decimal {
	fee, err := decimal.NewFromString(c.ServiceFee)
	if err != nil {
		return decimal.Zero
	}
	return fee.Round(2)
}

func (c CheckoutConfig) validate() error {
	fee, err := decimal.NewFromString(c.ServiceFee)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvServiceFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvServiceFee)
	}
	if strings.TrimSpace(c.OrderNumberPrefix) == "" {
		return fmt.Errorf("%s is required", EnvOrderPrefix)
	}
	return nil
}

type OrdersConfig struct {
	CountsCacheTTL time.Duration `envconfig:"FOODHUB_ORDERS_COUNTS_CACHE_TTL" default:"5s"`
}

type RateLimitConfig struct {
	ActionsWindow time.Duration `envconfig:"FOODHUB_RATE_LIMIT_ACTIONS_WINDOW" default:"1m"`
	ActionsLimit  int           `envconfig:"FOODHUB_RATE_LIMIT_ACTIONS_LIMIT" default:"120"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"FOODHUB_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOODHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOODHUB_AUTO_MIGRATE" default:"false"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"FOODHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"FOODHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"FOODHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
	ChannelPrefix  string `envconfig:"FOODHUB_OUTBOX_CHANNEL_PREFIX" default:"foodhub:events"`
}

func (o OutboxConfig) PollInterval() time.Duration {
	if o.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMS) * time.Millisecond
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if db.DSN != "" {
		return nil
	}
	if sqlite {
		db.DSN = "file:foodhub.db?cache=shared&_foreign_keys=on"
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
