package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the dashboard and worker.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8090" validate:"required"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s" validate:"gt=0"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s" validate:"gt=0"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty" validate:"oneof=pretty text json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"omitempty,oneof=debug info warn error"`

	APIURL            string        `envconfig:"BATAUDIT_API_URL" default:"http://localhost:8080" validate:"required,http_url"`
	AuditPageLimit    int           `envconfig:"AUDIT_PAGE_LIMIT" default:"10" validate:"gte=1,lte=100"`
	CacheTTL          time.Duration `envconfig:"CACHE_TTL" default:"30s" validate:"gt=0"`
	HealthHistorySize int           `envconfig:"HEALTH_HISTORY_SIZE" default:"60" validate:"gte=2,lte=1440"`

	RedisAddr    string `envconfig:"REDIS_ADDR" default:""`
	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"" validate:"omitempty,http_url"`

	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables. A .env file in
// the working directory is loaded first when present; real environment
// variables take precedence over it.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges after loading.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// WorkerEnabled reports whether a Redis instance is available for the
// background worker and shared cache.
func (c *Config) WorkerEnabled() bool {
	return c != nil && c.RedisAddr != ""
}
