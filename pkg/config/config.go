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
	Catalog      CatalogConfig
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
	Env          string `envconfig:"ASINWATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"ASINWATCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ASINWATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ASINWATCH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ASINWATCH_DB_DSN"`
	Driver string `envconfig:"ASINWATCH_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ASINWATCH_DB_HOST"`
	Port     int    `envconfig:"ASINWATCH_DB_PORT" default:"5432"`
	User     string `envconfig:"ASINWATCH_DB_USER"`
	Password string `envconfig:"ASINWATCH_DB_PASSWORD"`
	Name     string `envconfig:"ASINWATCH_DB_NAME"`
	SSLMode  string `envconfig:"ASINWATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ASINWATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ASINWATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ASINWATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ASINWATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ASINWATCH_REDIS_URL"`
	Address      string        `envconfig:"ASINWATCH_REDIS_ADDR"`
	Password     string        `envconfig:"ASINWATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"ASINWATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ASINWATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ASINWATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ASINWATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ASINWATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ASINWATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The
// reference cache degrades to direct DB reads when it is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CatalogConfig struct {
	DefaultPageSize   int           `envconfig:"ASINWATCH_CATALOG_DEFAULT_PAGE_SIZE" default:"25"`
	MaxPageSize       int           `envconfig:"ASINWATCH_CATALOG_MAX_PAGE_SIZE" default:"100"`
	ReferenceCacheTTL time.Duration `envconfig:"ASINWATCH_REFERENCE_CACHE_TTL" default:"60s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ASINWATCH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ASINWATCH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
