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
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
	Stripe       StripeConfig
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
	Env          string `envconfig:"COURIER_APP_ENV" required:"true"`
	Port         string `envconfig:"COURIER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"COURIER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COURIER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"COURIER_DB_DSN"`
	Driver string `envconfig:"COURIER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"COURIER_DB_HOST"`
	LegacyPort     int    `envconfig:"COURIER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"COURIER_DB_USER"`
	LegacyPassword string `envconfig:"COURIER_DB_PASSWORD"`
	LegacyName     string `envconfig:"COURIER_DB_NAME"`
	LegacySSLMode  string `envconfig:"COURIER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"COURIER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COURIER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COURIER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COURIER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"COURIER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"COURIER_REDIS_ADDR"`
	Password     string        `envconfig:"COURIER_REDIS_PASSWORD"`
	DB           int           `envconfig:"COURIER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COURIER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COURIER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COURIER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COURIER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COURIER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"COURIER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"COURIER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"COURIER_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"COURIER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"COURIER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"COURIER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"COURIER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"COURIER_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"COURIER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"COURIER_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the business rules the pricing engine does not own.
type PricingConfig struct {
	RiderEarningPercent int `envconfig:"COURIER_RIDER_EARNING_PERCENT" default:"30"`
}

type StripeConfig struct {
	APIKey string `envconfig:"COURIER_STRIPE_API_KEY"`
	Secret string `envconfig:"COURIER_STRIPE_SECRET"`
	Env    string `envconfig:"COURIER_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
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
