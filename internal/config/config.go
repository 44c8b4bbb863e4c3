package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// ErrDefaultSecret is returned when JWT_SECRET still holds a well-known placeholder
var ErrDefaultSecret = errors.New("config: JWT_SECRET must not use a default value")

// knownDefaultSecrets are placeholder secrets that must never reach production
var knownDefaultSecrets = []string{
	"a1b2c3d4e5f67890abcdef1234567890",
	"default-secret-key-change-me",
	"change-me",
	"secret",
}

type Config struct {
	Port        string        `mapstructure:"PORT" validate:"required"`
	GinMode     string        `mapstructure:"GIN_MODE" validate:"oneof=debug release test"`
	LogLevel    string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	StoreDriver string        `mapstructure:"STORE_DRIVER" validate:"oneof=mongo postgres mysql sqlite"`
	MongoURI    string        `mapstructure:"MONGO_URI" validate:"required_if=StoreDriver mongo"`
	MongoDB     string        `mapstructure:"MONGO_DATABASE" validate:"required_if=StoreDriver mongo"`
	DatabaseDSN string        `mapstructure:"DATABASE_DSN" validate:"required_unless=StoreDriver mongo"`
	DBTimeout   time.Duration `mapstructure:"DB_TIMEOUT" validate:"gt=0"`

	JWTSecret string        `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL" validate:"gt=0"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	TrustedProxies     []string `mapstructure:"TRUSTED_PROXIES" validate:"dive,ip|cidr"`
	RateLimitRPS       float64  `mapstructure:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst     int      `mapstructure:"RATE_LIMIT_BURST" validate:"gte=0"`
}

// Load reads configuration from defaults, an optional file named by
// CONFIG_FILE, and the environment, then validates it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// Keys without a default are only seen by Unmarshal once bound
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	cfg.CORSAllowedOrigins = cleanList(cfg.CORSAllowedOrigins)
	cfg.TrustedProxies = cleanList(cfg.TrustedProxies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envKeys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "STORE_DRIVER", "MONGO_URI", "MONGO_DATABASE",
	"DATABASE_DSN", "DB_TIMEOUT", "JWT_SECRET", "TOKEN_TTL",
	"CORS_ALLOWED_ORIGINS", "TRUSTED_PROXIES", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "tasks")
	v.SetDefault("DB_TIMEOUT", "10s")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

// Validate checks the configuration; a missing or placeholder secret is fatal
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, s := range knownDefaultSecrets {
		if c.JWTSecret == s {
			return ErrDefaultSecret
		}
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// cleanList trims entries and drops empty ones left by comma-separated input
func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if p := strings.TrimSpace(item); p != "" {
			out = append(out, p)
		}
	}
	return out
}
