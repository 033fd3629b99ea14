// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN for the order store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// WebhookSecret is the shared secret the commerce platform signs webhook payloads with.
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`
	// PublicKeyBase64 is the base64-encoded PEM RSA public key used to validate caller tokens.
	PublicKeyBase64 string `mapstructure:"PUBLIC_KEY_BASE64"`
	// JWTIssuer is the expected iss claim on caller tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the expected aud claim on caller tokens.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment via Viper. Missing .env is ignored (e.g. in CI). Env vars
// override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("PUBLIC_KEY_BASE64", "")
	v.SetDefault("JWT_ISSUER", "cod-order-auth")
	v.SetDefault("JWT_AUDIENCE", "cod-order-api")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	return &cfg, nil
}
