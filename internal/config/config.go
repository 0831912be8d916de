package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process configuration. Values come from the environment,
// optionally seeded from a .env file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	OTelEnabled     bool
	ServiceName     string
	SessionTTL      time.Duration
	SessionMax      int
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

// Load reads .env when present and returns the resolved configuration.
// Existing process environment variables are not overridden.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_service_name", "calcpad")
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("session_max", 10000)
	v.SetDefault("session_sweep_interval", time.Minute)
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		HTTPAddr:        v.GetString("http_addr"),
		LogLevel:        v.GetString("log_level"),
		OTelEnabled:     v.GetBool("otel_enabled"),
		ServiceName:     v.GetString("otel_service_name"),
		SessionTTL:      v.GetDuration("session_ttl"),
		SessionMax:      v.GetInt("session_max"),
		SweepInterval:   v.GetDuration("session_sweep_interval"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []string

	if c.HTTPAddr == "" {
		errs = append(errs, "HTTP_ADDR is required")
	}
	if c.SessionMax < 0 {
		errs = append(errs, "SESSION_MAX must not be negative")
	}
	if c.SessionTTL > 0 && c.SweepInterval <= 0 {
		errs = append(errs, "SESSION_SWEEP_INTERVAL must be positive when SESSION_TTL is set")
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, ", "))
	}
	return nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}
