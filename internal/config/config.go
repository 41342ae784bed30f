// Package config loads application settings from the environment, after
// reading an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string // "development", "production", "testing"
	Host string
	Port string

	DBDriver    string // "postgres" or "sqlite"
	DatabaseURL string

	JWTSecret    string
	JWTExpiresIn time.Duration

	LogLevel string

	// Redis is optional. An empty address keeps sessions, the cache and
	// notifications in process.
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	SessionTTL time.Duration

	StorageBackend   string // "local" or "s3"
	StorageDir       string
	StoragePublicURL string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	Seed          bool
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	// SigninRate is the number of sign-in attempts allowed per minute per client.
	SigninRate int
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool
}

const devSecret = "dev-secret-change-me-dev-secret-change-me"

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:  envOrDefault("APP_ENV", "development"),
		Host: envOrDefault("HTTP_HOST", "0.0.0.0"),
		Port: envOrDefault("HTTP_PORT", "8080"),

		DBDriver:    envOrDefault("DB_DRIVER", "sqlite"),
		DatabaseURL: envOrDefault("DATABASE_URL", "file:funkos.db?_foreign_keys=on"),

		JWTSecret: envOrDefault("JWT_SECRET", devSecret),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StorageBackend:   envOrDefault("STORAGE_BACKEND", "local"),
		StorageDir:       envOrDefault("STORAGE_DIR", "uploads"),
		StoragePublicURL: os.Getenv("STORAGE_PUBLIC_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3Bucket:    envOrDefault("S3_BUCKET", "funkos"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		AdminUsername: envOrDefault("ADMIN_USERNAME", "admin"),
		AdminEmail:    envOrDefault("ADMIN_EMAIL", "admin@funkos.local"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", "admin1234"),
	}

	var err error
	if cfg.JWTExpiresIn, err = durationOrDefault("JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationOrDefault("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = durationOrDefault("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Seed, err = strconv.ParseBool(envOrDefault("SEED", "true")); err != nil {
		return nil, fmt.Errorf("SEED: %w", err)
	}
	if cfg.SigninRate, err = strconv.Atoi(envOrDefault("SIGNIN_RATE", "10")); err != nil {
		return nil, fmt.Errorf("SIGNIN_RATE: %w", err)
	}
	if cfg.TrustProxy, err = strconv.ParseBool(envOrDefault("TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("TRUST_PROXY: %w", err)
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	switch cfg.StorageBackend {
	case "local", "s3":
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be local or s3, got %q", cfg.StorageBackend)
	}

	if cfg.Env == "production" {
		if cfg.JWTSecret == devSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		if cfg.AdminPassword == "admin1234" && cfg.Seed {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
