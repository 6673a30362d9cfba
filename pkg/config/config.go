package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "fashionhub"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FASHIONHUB_DB_DSN"
	EnvDBHost = "FASHIONHUB_DB_HOST"
	EnvDBUser = "FASHIONHUB_DB_USER"
	EnvDBName = "FASHIONHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Orders   OrdersConfig
	Features FeatureFlagsConfig
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
	Env          string `envconfig:"FASHIONHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"FASHIONHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FASHIONHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FASHIONHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FASHIONHUB_DB_DSN"`
	Driver string `envconfig:"FASHIONHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FASHIONHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"FASHIONHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FASHIONHUB_DB_USER"`
	LegacyPassword string `envconfig:"FASHIONHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"FASHIONHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"FASHIONHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FASHIONHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FASHIONHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FASHIONHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FASHIONHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FASHIONHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FASHIONHUB_REDIS_ADDR"`
	Password     string        `envconfig:"FASHIONHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"FASHIONHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FASHIONHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FASHIONHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FASHIONHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FASHIONHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FASHIONHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// GatewayConfig holds Khalti web-checkout credentials and timeouts.
type GatewayConfig struct {
	BaseURL        string        `envconfig:"FASHIONHUB_KHALTI_BASE_URL" default:"https://dev.khalti.com/api/v2"`
	SecretKey      string        `envconfig:"FASHIONHUB_KHALTI_SECRET_KEY"`
	ReturnURL      string        `envconfig:"FASHIONHUB_KHALTI_RETURN_URL"`
	WebsiteURL     string        `envconfig:"FASHIONHUB_KHALTI_WEBSITE_URL"`
	RequestTimeout time.Duration `envconfig:"FASHIONHUB_KHALTI_REQUEST_TIMEOUT" default:"30s"`
	SessionTTL     time.Duration `envconfig:"FASHIONHUB_KHALTI_SESSION_TTL" default:"1h"`
}

// OrdersConfig tunes order lifecycle policy.
type OrdersConfig struct {
	CustomerCancelWindow time.Duration `envconfig:"FASHIONHUB_ORDERS_CUSTOMER_CANCEL_WINDOW" default:"30m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FASHIONHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FASHIONHUB_AUTO_MIGRATE" default:"false"`
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
