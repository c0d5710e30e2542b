package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Worker WorkerConfig
	Cron   CronConfig
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
	Env          string `envconfig:"FEIRINHA_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"FEIRINHA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FEIRINHA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "prod")
}

type DBConfig struct {
	DSN string `envconfig:"FEIRINHA_DB_DSN"`

	Host     string `envconfig:"FEIRINHA_DB_HOST"`
	Port     int    `envconfig:"FEIRINHA_DB_PORT" default:"5432"`
	User     string `envconfig:"FEIRINHA_DB_USER"`
	Password string `envconfig:"FEIRINHA_DB_PASSWORD"`
	Name     string `envconfig:"FEIRINHA_DB_NAME"`
	SSLMode  string `envconfig:"FEIRINHA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FEIRINHA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FEIRINHA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FEIRINHA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FEIRINHA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FEIRINHA_REDIS_URL"`
	Address      string        `envconfig:"FEIRINHA_REDIS_ADDR"`
	Password     string        `envconfig:"FEIRINHA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FEIRINHA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FEIRINHA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FEIRINHA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FEIRINHA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FEIRINHA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FEIRINHA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type WorkerConfig struct {
	PollInterval time.Duration `envconfig:"FEIRINHA_WORKER_POLL_INTERVAL" default:"5s"`
	Concurrency  int           `envconfig:"FEIRINHA_WORKER_CONCURRENCY" default:"4"`
	BatchSize    int           `envconfig:"FEIRINHA_WORKER_BATCH_SIZE" default:"20"`
}

type CronConfig struct {
	Interval      time.Duration `envconfig:"FEIRINHA_CRON_INTERVAL" default:"24h"`
	StaleListDays int           `envconfig:"FEIRINHA_CRON_STALE_LIST_DAYS" default:"7"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"FEIRINHA_DB_HOST": db.Host,
		"FEIRINHA_DB_USER": db.User,
		"FEIRINHA_DB_NAME": db.Name,
	}
	for _, key := range []string{"FEIRINHA_DB_HOST", "FEIRINHA_DB_USER", "FEIRINHA_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either FEIRINHA_DB_DSN or %s are required", strings.Join(missing, ", "))
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
