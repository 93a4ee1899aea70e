package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	CartTTL        time.Duration
	ReportCacheTTL time.Duration
	IdempotencyTTL time.Duration

	// Pricing pass factors applied on every recorded sale.
	PriceSoldFactor   float64
	PriceOthersFactor float64

	SalesRateWindow time.Duration
	SalesRateMax    int

	SecurityHeadersEnabled bool
	AutoMigrate            bool
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		CartTTL:        parseDuration(k.String("CART_TTL"), "24h"),
		ReportCacheTTL: parseDuration(k.String("REPORT_CACHE_TTL"), "30s"),
		IdempotencyTTL: parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),

		PriceSoldFactor:   parseFloat(k.String("PRICE_SOLD_FACTOR"), 1.04),
		PriceOthersFactor: parseFloat(k.String("PRICE_OTHERS_FACTOR"), 0.98),

		SalesRateWindow: parseDuration(k.String("SALES_RATE_WINDOW"), "1s"),
		SalesRateMax:    parseInt(k.String("SALES_RATE_MAX"), 20),

		SecurityHeadersEnabled: parseBool(k.String("SECURITY_HEADERS_ENABLED"), true),
		AutoMigrate:            parseBool(k.String("DB_AUTO_MIGRATE"), true),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.PriceSoldFactor <= 0 || math.IsInf(cfg.PriceSoldFactor, 0) {
		return nil, errors.New("PRICE_SOLD_FACTOR must be a positive finite number")
	}
	if cfg.PriceOthersFactor <= 0 || math.IsInf(cfg.PriceOthersFactor, 0) {
		return nil, errors.New("PRICE_OTHERS_FACTOR must be a positive finite number")
	}

	return cfg, nil
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
