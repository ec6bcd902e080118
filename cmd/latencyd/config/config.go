// Package config provides configuration parsing for latencyd.
//
// It handles both command-line flags and environment variables, with flags
// taking precedence over environment variables. The Config struct contains
// all runtime configuration:
//   - HTTP listen address and TLS settings
//   - Dataset file path
//   - Default breach threshold applied when a query omits threshold_ms
//   - Result cache backend (off, memory, or redis) and redis connection
//   - Logging configuration (level, format)
//
// Supported configuration sources (in order of precedence):
//  1. Command-line flags
//  2. Environment variables
//  3. Default values
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HatiCode/latencyd/pkg/tls"
)

// DefaultDatasetPath is the default dataset file, resolved relative to the
// working directory.
const DefaultDatasetPath = "q-vercel-latency.json"

// Config holds all latencyd configuration.
type Config struct {
	Listen    string
	LogFormat string
	LogLevel  string

	DatasetPath      string
	DefaultThreshold float64

	Cache         string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TLS tls.Config
}

// ParseFlags parses command-line flags and environment variables into a
// Config. Environment variables are used as fallbacks when flags are not
// provided.
func ParseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8080"), "HTTP listen address")

	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.StringVar(&cfg.DatasetPath, "dataset", getEnv("DATASET_PATH", DefaultDatasetPath), "Path to the latency observations JSON file")
	flag.Float64Var(&cfg.DefaultThreshold, "default-threshold", getEnvFloat("DEFAULT_THRESHOLD_MS", 180), "Breach threshold in ms when a query omits threshold_ms")

	flag.StringVar(&cfg.Cache, "cache", getEnv("CACHE", "memory"), "Result cache backend: off, memory, or redis")
	flag.DurationVar(&cfg.CacheTTL, "cache-ttl", getEnvDuration("CACHE_TTL", 5*time.Minute), "Result cache entry TTL")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis server address")
	flag.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database number")

	flag.BoolVar(&cfg.TLS.Enabled, "tls-enabled", getEnvBool("TLS_ENABLED", false), "Enable TLS for HTTP server")
	flag.StringVar(&cfg.TLS.CertFile, "tls-cert-file", getEnv("TLS_CERT_FILE", ""), "TLS certificate file")
	flag.StringVar(&cfg.TLS.KeyFile, "tls-key-file", getEnv("TLS_KEY_FILE", ""), "TLS private key file")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("dataset path cannot be empty")
	}

	if c.DefaultThreshold < 0 {
		return fmt.Errorf("default threshold cannot be negative, got %v", c.DefaultThreshold)
	}

	switch c.Cache {
	case "off", "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend %q (must be off, memory, or redis)", c.Cache)
	}

	if c.Cache == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("redis cache enabled but redis address is empty")
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative, got %v", c.CacheTTL)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be text or json)", c.LogFormat)
	}

	return c.TLS.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
