package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SALEPOINT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Reports      ReportsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SALEPOINT_APP_ENV" default:"dev"`
	Port         string `envconfig:"SALEPOINT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SALEPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALEPOINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"SALEPOINT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"SALEPOINT_DB_DSN" default:"file:salepoint.db?_fk=1"`

	MaxOpenConns    int           `envconfig:"SALEPOINT_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"SALEPOINT_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"SALEPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALEPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

// IsSQLite reports whether the ledger runs on the embedded store.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SALEPOINT_REDIS_URL"`
	PoolSize     int           `envconfig:"SALEPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SALEPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SALEPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SALEPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SALEPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a cache endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type ReportsConfig struct {
	CacheTTL time.Duration `envconfig:"SALEPOINT_REPORTS_CACHE_TTL" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SALEPOINT_AUTO_MIGRATE" default:"true"`
}
