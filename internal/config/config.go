package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds terminal configuration loaded from the environment.
type Config struct {
	AppEnv                   string
	Port                     string
	DatabasePath             string
	RedisURL                 string
	StoreName                string
	DefaultTaxRateBps        int
	DefaultLowStockThreshold int
	ReceiptWidth             int
	CatalogCacheTTL          time.Duration
	CORSAllowedOrigins       []string
	LogFormat                string
	LogLevel                 string
	MetricsBucketsCSV        string
}

// Load reads configuration from environment variables and an optional .env
// file. Every setting has a default so a terminal boots with no environment
// at all; REDIS_URL stays empty unless a shared cache is configured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:                   valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                     valueOrDefault(k.String("PORT"), "8080"),
		DatabasePath:             valueOrDefault(k.String("DATABASE_PATH"), "pos.db"),
		RedisURL:                 k.String("REDIS_URL"),
		StoreName:                valueOrDefault(k.String("STORE_NAME"), "Grocery Store POS"),
		DefaultTaxRateBps:        parseInt(k.String("DEFAULT_TAX_RATE_BPS"), 1100),
		DefaultLowStockThreshold: parseInt(k.String("DEFAULT_LOW_STOCK_THRESHOLD"), 10),
		ReceiptWidth:             parseInt(k.String("RECEIPT_WIDTH"), 32),
		CatalogCacheTTL:          parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		CORSAllowedOrigins:       splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		LogFormat:                valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:                 valueOrDefault(k.String("LOG_LEVEL"), "info"),
		MetricsBucketsCSV:        k.String("METRICS_BUCKETS_MS"),
	}

	if cfg.DefaultTaxRateBps < 0 {
		cfg.DefaultTaxRateBps = 0
	}
	if cfg.DefaultLowStockThreshold < 0 {
		cfg.DefaultLowStockThreshold = 0
	}

	return cfg, nil
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

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return v
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

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
