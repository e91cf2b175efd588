package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
)

type Config struct {
	Port string
	Env  string

	// reporting backend
	BackendURL     string
	BackendTimeout time.Duration // 0 keeps the transport default
	BackendToken   string

	// snapshot history, disabled when empty
	DatabaseURL       string
	SnapshotRetention int

	JWTSecret       string
	TokenExpiration time.Duration

	DefaultCurrency string
	DefaultRange    string
	StatsConfigPath string
	LogLevel        string
}

func Load() *Config {
	tokenExp, _ := strconv.Atoi(getEnv("TOKEN_EXPIRATION_MINUTES", "60"))

	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:3000"), "/"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 0),
		BackendToken:   getEnv("BACKEND_TOKEN", ""),

		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SnapshotRetention: getEnvInt("SNAPSHOT_RETENTION", 50),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(tokenExp) * time.Minute,

		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "USD"),
		DefaultRange:    getEnv("DEFAULT_RANGE", "monthToDate"),
		StatsConfigPath: getEnv("STATS_CONFIG", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if u, err := url.Parse(c.BackendURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid backend URL '%s': %v", c.BackendURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid backend URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	} else if u.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid backend URL '%s': missing host", c.BackendURL))
	}

	if c.BackendTimeout < 0 {
		errs = append(errs, fmt.Sprintf("invalid backend timeout %v: must not be negative", c.BackendTimeout))
	}

	if c.DatabaseURL != "" && c.SnapshotRetention < 1 {
		errs = append(errs, fmt.Sprintf("invalid snapshot retention %d: must be at least 1", c.SnapshotRetention))
	}

	if c.JWTSecret != "" && c.TokenExpiration <= 0 {
		errs = append(errs, "token expiration must be positive when JWT_SECRET is set")
	}

	if money.GetCurrency(c.DefaultCurrency) == nil {
		errs = append(errs, fmt.Sprintf("unknown currency '%s'", c.DefaultCurrency))
	}

	switch c.DefaultRange {
	case "monthToDate", "yearToDate", "lastMonth":
	default:
		errs = append(errs, fmt.Sprintf("invalid default range '%s': must be one of monthToDate, yearToDate, lastMonth", c.DefaultRange))
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// SnapshotsEnabled reports whether fetched payloads are persisted.
func (c *Config) SnapshotsEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
