// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv         string        `env:"APP_ENV" default:"development"`
	Port           string        `env:"PORT" default:"8080"`
	BackendBaseURL string        `env:"BACKEND_BASE_URL"`
	RedisURL       string        `env:"REDIS_URL"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	LogLevel       string        `env:"LOG_LEVEL" default:"info"`
	LogFormat      string        `env:"LOG_FORMAT" default:"text"`

	SessionMaxAge  time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
	ClientIdleTTL  time.Duration `env:"CLIENT_IDLE_TTL" default:"30m"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" default:"10s"`

	// Requests per second and burst for the anonymous PDF generator, per IP.
	PublicPDFRate  float64 `env:"PUBLIC_PDF_RATE" default:"0.5"`
	PublicPDFBurst int     `env:"PUBLIC_PDF_BURST" default:"3"`

	// BreakerEnabled guards the circuit breaker on the backend transport.
	BreakerEnabled bool `env:"BREAKER_ENABLED" default:"true"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"BACKEND_BASE_URL": cfg.BackendBaseURL,
		"REDIS_URL":        cfg.RedisURL,
		"SESSION_SECRET":   cfg.SessionSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if _, err := url.ParseRequestURI(cfg.BackendBaseURL); err != nil {
		return fmt.Errorf("BACKEND_BASE_URL must be a valid URL: %w", err)
	}

	if len(cfg.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}

	if cfg.PublicPDFRate <= 0 || cfg.PublicPDFBurst <= 0 {
		return fmt.Errorf("PUBLIC_PDF_RATE and PUBLIC_PDF_BURST must be positive")
	}

	return nil
}
