package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Shopify      ShopifyConfig
	Webhook      WebhookConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"TAGDECK_APP_ENV" required:"true"`
	Port     string `envconfig:"TAGDECK_APP_PORT" required:"true"`
	LogLevel string `envconfig:"TAGDECK_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TAGDECK_DB_DSN"`
	Driver string `envconfig:"TAGDECK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TAGDECK_DB_HOST"`
	LegacyPort     int    `envconfig:"TAGDECK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TAGDECK_DB_USER"`
	LegacyPassword string `envconfig:"TAGDECK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TAGDECK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TAGDECK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TAGDECK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TAGDECK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TAGDECK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TAGDECK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TAGDECK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TAGDECK_REDIS_ADDR"`
	Password     string        `envconfig:"TAGDECK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TAGDECK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TAGDECK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TAGDECK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TAGDECK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TAGDECK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TAGDECK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ShopifyConfig carries credentials for the Admin GraphQL API plus the
// webhook signing secret.
type ShopifyConfig struct {
	ShopDomain    string `envconfig:"TAGDECK_SHOPIFY_SHOP_DOMAIN" required:"true"`
	AdminToken    string `envconfig:"TAGDECK_SHOPIFY_ADMIN_TOKEN" required:"true"`
	APIVersion    string `envconfig:"TAGDECK_SHOPIFY_API_VERSION" default:"2025-07"`
	WebhookSecret string `envconfig:"TAGDECK_SHOPIFY_WEBHOOK_SECRET" required:"true"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"TAGDECK_WEBHOOK_IDEMPOTENCY_TTL" default:"72h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TAGDECK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TAGDECK_AUTO_MIGRATE" default:"false"`
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
