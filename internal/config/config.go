// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Log      LogConfig
	Pricing  PricingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	if strings.HasPrefix(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// DatabaseConfig holds database connection settings. Driver is either
// "postgres" or "sqlite"; SQLitePath is only used by the latter.
type DatabaseConfig struct {
	Driver      string
	DSNOverride string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SQLitePath  string
	Debug       bool
}

// DSN returns the PostgreSQL connection string in key=value format, or the
// DATABASE_DSN override when one is set.
func (d DatabaseConfig) DSN() string {
	if d.DSNOverride != "" {
		return d.DSNOverride
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	Seed          bool
	SessionSecret string
	SessionTTL    time.Duration
}

// LogConfig selects the zerolog output format ("json" or "console") and level.
type LogConfig struct {
	Format string
	Level  string
}

// PricingConfig holds defaults of the pricing engine.
type PricingConfig struct {
	// RequireDimensions rejects area priced items without width and height
	// instead of pricing them per piece.
	RequireDimensions bool
	OrderPrefix       string
	QuotePrefix       string
}

// Load reads configuration from the environment, after loading an optional
// .env file. It uses sensible defaults for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return FromKoanf(k), nil
}

// FromKoanf builds a Config from already loaded keys.
func FromKoanf(k *koanf.Koanf) *Config {
	e := source{k}
	dev := e.Bool("DEV", true)
	return &Config{
		Server: ServerConfig{
			Port:         e.String("PORT", "8080"),
			ReadTimeout:  e.Int("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: e.Int("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  e.Int("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(e.String("DB_DRIVER", "postgres")),
			DSNOverride: e.String("DATABASE_DSN", ""),
			Host:        e.String("DB_HOST", "localhost"),
			Port:        e.Int("DB_PORT", 5432),
			User:        e.String("DB_USER", "pedidos"),
			Password:    e.String("DB_PASSWORD", "pedidos123"),
			DBName:      e.String("DB_NAME", "pedidos"),
			SSLMode:     e.String("DB_SSLMODE", "disable"),
			SQLitePath:  e.String("DB_SQLITE_PATH", "pedidos.db"),
			Debug:       e.Bool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:           dev,
			Migrations:    e.Bool("MIGRATIONS", false),
			Seed:          e.Bool("DB_SEED", false),
			SessionSecret: e.String("SESSION_SECRET", ""),
			SessionTTL:    e.Duration("SESSION_TTL", 14*24*time.Hour),
		},
		Log: LogConfig{
			Format: e.String("LOG_FORMAT", defaultLogFormat(dev)),
			Level:  e.String("LOG_LEVEL", "info"),
		},
		Pricing: PricingConfig{
			RequireDimensions: e.Bool("PRICING_REQUIRE_DIMENSIONS", false),
			OrderPrefix:       strings.ToUpper(e.String("ORDER_PREFIX", "PED")),
			QuotePrefix:       strings.ToUpper(e.String("QUOTE_PREFIX", "ORC")),
		},
	}
}

func defaultLogFormat(dev bool) string {
	if dev {
		return "console"
	}
	return "json"
}

// source reads typed values with defaults from a koanf instance.
type source struct {
	k *koanf.Koanf
}

// String returns the trimmed value of key or a default.
func (s source) String(key, defaultValue string) string {
	if value := strings.TrimSpace(s.k.String(key)); value != "" {
		return value
	}
	return defaultValue
}

// Int returns the integer value of key or a default.
func (s source) Int(key string, defaultValue int) int {
	if value := s.String(key, ""); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// Bool returns the boolean value of key or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func (s source) Bool(key string, defaultValue bool) bool {
	value := strings.ToLower(s.String(key, ""))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// Duration parses key with time.ParseDuration, falling back to a default.
func (s source) Duration(key string, defaultValue time.Duration) time.Duration {
	if value := s.String(key, ""); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
