// Package config holds the application's configuration settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvironmentTest = "TEST"
	EnvironmentLive = "LIVE"
)

// AppConfig defines environment-based configuration for the application.
type AppConfig struct {
	Http  HttpConfig
	Adyen AdyenConfig
	Retry RetryConfig
	Store StoreConfig
	Log   LogConfig
}

type HttpConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	BaseURL     string `env:"BASE_URL"`
	AppEnv      string `env:"APP_ENV" env-default:"development"`
	CorsOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	RateLimit   string `env:"RATE_LIMIT" env-default:"120-M"`
	StaticDir   string `env:"STATIC_DIR" env-default:"./public"`
}

type AdyenConfig struct {
	APIKey          string `env:"ADYEN_API_KEY"`
	MerchantAccount string `env:"ADYEN_MERCHANT_ACCOUNT"`
	ClientKey       string `env:"ADYEN_CLIENT_KEY"`
	HMACKey         string `env:"ADYEN_HMAC_KEY"`
	Environment     string `env:"ADYEN_ENVIRONMENT"`
	LiveURLPrefix   string `env:"ADYEN_LIVE_URL_PREFIX"`
}

// IsSandbox reports whether calls go to the vendor's test environment.
func (a AdyenConfig) IsSandbox() bool {
	return a.Environment != EnvironmentLive
}

type RetryConfig struct {
	Attempts int           `env:"VENDOR_RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `env:"VENDOR_RETRY_DELAY" env-default:"1s"`
}

type StoreConfig struct {
	Backend  string        `env:"STATUS_STORE" env-default:"memory"`
	RedisURL string        `env:"REDIS_URL"`
	TTL      time.Duration `env:"STATUS_TTL" env-default:"24h"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	File  string `env:"LOG_FILE"`
}

// Load reads an optional dotenv file into the process environment and then
// populates and validates an AppConfig from it.
func Load(envFile string) (*AppConfig, error) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.Adyen.Environment == "" {
		cfg.Adyen.Environment = EnvironmentTest
		if cfg.Http.AppEnv == "production" {
			cfg.Adyen.Environment = EnvironmentLive
		}
	}
	cfg.Adyen.Environment = strings.ToUpper(cfg.Adyen.Environment)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every mandatory setting is present.
func (c *AppConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"ADYEN_API_KEY", c.Adyen.APIKey},
		{"ADYEN_MERCHANT_ACCOUNT", c.Adyen.MerchantAccount},
		{"ADYEN_ENVIRONMENT", c.Adyen.Environment},
		{"ADYEN_CLIENT_KEY", c.Adyen.ClientKey},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.Adyen.Environment != EnvironmentTest && c.Adyen.Environment != EnvironmentLive {
		return fmt.Errorf("ADYEN_ENVIRONMENT must be %s or %s, got %q", EnvironmentTest, EnvironmentLive, c.Adyen.Environment)
	}

	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.RedisURL == "" {
			return errors.New("REDIS_URL is required when STATUS_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown STATUS_STORE %q", c.Store.Backend)
	}

	if c.Retry.Attempts < 1 {
		return fmt.Errorf("VENDOR_RETRY_ATTEMPTS must be at least 1, got %d", c.Retry.Attempts)
	}

	if c.Adyen.HMACKey == "" {
		slog.Warn("ADYEN_HMAC_KEY is not set, webhook validation will be skipped")
	}

	return nil
}
