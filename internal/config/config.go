package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Pricing  PricingConfig
	Security SecurityConfig
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Port string
}

// StoreConfig locates the SQLite data file. The file is exclusively owned by
// the running process.
type StoreConfig struct {
	DBPath string
}

// PricingConfig holds the presentation heuristics: the markup used for
// suggested selling prices and the fallback re-order threshold applied to
// items that do not set their own.
type PricingConfig struct {
	MarkupPercent       decimal.Decimal
	DefaultReorderLevel int
}

// SecurityConfig holds the operator account seed and token signing secret.
type SecurityConfig struct {
	JWTSecret        string
	OperatorUsername string
	OperatorPassword string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	markup, err := decimal.NewFromString(getenvWithDefault("MARKUP_PERCENT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid MARKUP_PERCENT: %w", err)
	}

	reorderLevel, err := strconv.Atoi(getenvWithDefault("DEFAULT_REORDER_LEVEL", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_REORDER_LEVEL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("PORT", "8080"),
		},
		Store: StoreConfig{
			DBPath: getenvWithDefault("DB_PATH", "data/store.db"),
		},
		Pricing: PricingConfig{
			MarkupPercent:       markup,
			DefaultReorderLevel: reorderLevel,
		},
		Security: SecurityConfig{
			JWTSecret:        os.Getenv("JWT_SECRET"),
			OperatorUsername: getenvWithDefault("OPERATOR_USERNAME", "admin"),
			OperatorPassword: os.Getenv("OPERATOR_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures required configuration fields are populated and sane.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Store.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if c.Pricing.MarkupPercent.IsNegative() {
		return errors.New("MARKUP_PERCENT must not be negative")
	}
	if c.Pricing.DefaultReorderLevel < 0 {
		return errors.New("DEFAULT_REORDER_LEVEL must not be negative")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
