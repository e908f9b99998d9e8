package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"gkmedicos/api/domain"
)

// Config holds application configuration values.
type Config struct {
	Secret          string
	TokenTTL        time.Duration
	DatabaseDSN     string
	HTTPPort        string
	ExpiryAlertDays int
	CORSOrigins     []string

	OwnerEmail    string
	OwnerPassword string
	StaffEmail    string
	StaffPassword string
	SeedCatalog   string

	LogMode       string
	LogFile       string
	AlertSchedule string

	// Warnings collects values Load replaced with defaults. Logging is
	// not up yet when Load runs, so callers report them after logging.Init.
	Warnings []string
}

// Load reads configuration from the environment (and a .env file when
// present) with reasonable defaults.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Config{
		Secret:          env("SECRET", "dev_secret"),
		TokenTTL:        cast.ToDuration(env("TOKEN_TTL", "24h")),
		DatabaseDSN:     env("DATABASE_DSN", "pharmacy.db"),
		HTTPPort:        env("HTTP_PORT", "8001"),
		ExpiryAlertDays: cast.ToInt(env("EXPIRY_ALERT_DAYS", "30")),
		CORSOrigins:     splitList(env("CORS_ORIGINS", "*")),
		OwnerEmail:      env("SEED_OWNER_EMAIL", "owner@gkmedicos.com"),
		OwnerPassword:   env("SEED_OWNER_PASSWORD", "owner123"),
		StaffEmail:      env("SEED_STAFF_EMAIL", "staff@gkmedicos.com"),
		StaffPassword:   env("SEED_STAFF_PASSWORD", "staff123"),
		SeedCatalog:     os.Getenv("SEED_CATALOG"),
		LogMode:         env("LOG_MODE", "development"),
		LogFile:         os.Getenv("LOG_FILE"),
		AlertSchedule:   env("ALERT_SCHEDULE", "@daily"),
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid HTTP_PORT value %q, defaulting to 8001", cfg.HTTPPort))
		cfg.HTTPPort = "8001"
	}
	if cfg.TokenTTL <= 0 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid TOKEN_TTL value %q, defaulting to 24h", os.Getenv("TOKEN_TTL")))
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.ExpiryAlertDays <= 0 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid EXPIRY_ALERT_DAYS value %q, defaulting to %d",
			os.Getenv("EXPIRY_ALERT_DAYS"), domain.DefaultExpiryWindowDays))
		cfg.ExpiryAlertDays = domain.DefaultExpiryWindowDays
	}
	return cfg
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
