package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "sharebasket"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHAREBASKET_DB_DSN"
	EnvDBHost = "SHAREBASKET_DB_HOST"
	EnvDBUser = "SHAREBASKET_DB_USER"
	EnvDBName = "SHAREBASKET_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Chat         ChatConfig
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
	Env          string `envconfig:"SHAREBASKET_APP_ENV" required:"true"`
	Port         string `envconfig:"SHAREBASKET_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHAREBASKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHAREBASKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHAREBASKET_DB_DSN"`
	Driver string `envconfig:"SHAREBASKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHAREBASKET_DB_HOST"`
	LegacyPort     int    `envconfig:"SHAREBASKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHAREBASKET_DB_USER"`
	LegacyPassword string `envconfig:"SHAREBASKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHAREBASKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHAREBASKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHAREBASKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHAREBASKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHAREBASKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHAREBASKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHAREBASKET_REDIS_URL"`
	Address      string        `envconfig:"SHAREBASKET_REDIS_ADDR"`
	Password     string        `envconfig:"SHAREBASKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHAREBASKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHAREBASKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHAREBASKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHAREBASKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHAREBASKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHAREBASKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHAREBASKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHAREBASKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHAREBASKET_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type ChatConfig struct {
	DefaultPageSize int `envconfig:"SHAREBASKET_CHAT_DEFAULT_PAGE_SIZE" default:"50"`
	MaxBodyLength   int `envconfig:"SHAREBASKET_CHAT_MAX_BODY_LENGTH" default:"2000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHAREBASKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHAREBASKET_AUTO_MIGRATE" default:"false"`
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
