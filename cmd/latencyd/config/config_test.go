package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "from-env",
			want:         "from-env",
		},
		{
			name:         "environment variable not set",
			key:          "NONEXISTENT_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue float64
		envValue     string
		want         float64
	}{
		{
			name:         "valid float",
			key:          "TEST_FLOAT",
			defaultValue: 180,
			envValue:     "150.5",
			want:         150.5,
		},
		{
			name:         "invalid float",
			key:          "TEST_FLOAT",
			defaultValue: 180,
			envValue:     "not-a-number",
			want:         180,
		},
		{
			name:         "not set",
			key:          "NONEXISTENT_FLOAT",
			defaultValue: 180,
			envValue:     "",
			want:         180,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvFloat(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "90s")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Errorf("getEnvDuration() = %v, want 90s", got)
	}
	if got := getEnvDuration("NONEXISTENT_DURATION", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() = %v, want 1m default", got)
	}
}

func validConfig() *Config {
	return &Config{
		Listen:           ":8080",
		LogFormat:        "text",
		LogLevel:         "info",
		DatasetPath:      DefaultDatasetPath,
		DefaultThreshold: 180,
		Cache:            "memory",
		CacheTTL:         5 * time.Minute,
		RedisAddr:        "localhost:6379",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"cache off", func(c *Config) { c.Cache = "off" }, false},
		{"cache redis", func(c *Config) { c.Cache = "redis" }, false},
		{"empty dataset path", func(c *Config) { c.DatasetPath = "" }, true},
		{"negative threshold", func(c *Config) { c.DefaultThreshold = -1 }, true},
		{"unknown cache backend", func(c *Config) { c.Cache = "memcached" }, true},
		{"redis cache without address", func(c *Config) { c.Cache = "redis"; c.RedisAddr = "" }, true},
		{"negative cache ttl", func(c *Config) { c.CacheTTL = -time.Second }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"tls enabled without files", func(c *Config) { c.TLS.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
