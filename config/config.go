package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port      string `env:"PORT" envDefault:"8080" validate:"required"`
	APIPrefix string `env:"API_PREFIX" envDefault:"/api/v1" validate:"required,startswith=/"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"3h"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	ClientBaseURL   string `env:"CLIENT_BASE_URL,required" validate:"required,url"`
	ClientResetPath string `env:"CLIENT_RESET_PATH" envDefault:"reset-password" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// PurgeSchedule is a cron expression for the expired token sweep.
	PurgeSchedule string `env:"PURGE_SCHEDULE" envDefault:"@every 10m" validate:"required"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ResetLinkBase is the client URL that reset tokens get appended to when
// building the link embedded in password reset emails.
func (c *Config) ResetLinkBase() string {
	base := strings.TrimSuffix(c.ClientBaseURL, "/")
	path := strings.Trim(c.ClientResetPath, "/")
	return base + "/" + path
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
