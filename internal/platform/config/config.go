package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Rate source settings
	RateSourceURL     string
	RateSourceTimeout time.Duration

	// Scheduler settings
	RateRefreshAt string // daily wall-clock trigger, "HH:MM"
	RateRefreshTZ string // IANA zone name for the trigger time

	// Advisory freshness threshold for the active snapshot
	RateStalenessMaxAge time.Duration

	// Manual refresh endpoint rate limit, ulule/limiter format (e.g. "10-H")
	RefreshRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_SOURCE_URL", "https://www.cbr.ru/currency_base/daily/")
	viper.SetDefault("RATE_SOURCE_TIMEOUT", "10s")
	viper.SetDefault("RATE_REFRESH_AT", "03:00")
	viper.SetDefault("RATE_REFRESH_TZ", "Europe/Moscow")
	viper.SetDefault("RATE_STALENESS_MAX_AGE", "48h")
	viper.SetDefault("REFRESH_RATE_LIMIT", "10-H")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateSourceURL = viper.GetString("RATE_SOURCE_URL")
	cfg.RateRefreshAt = viper.GetString("RATE_REFRESH_AT")
	cfg.RateRefreshTZ = viper.GetString("RATE_REFRESH_TZ")
	cfg.RefreshRateLimit = viper.GetString("REFRESH_RATE_LIMIT")

	sourceTimeoutStr := viper.GetString("RATE_SOURCE_TIMEOUT")
	sourceTimeout, err := time.ParseDuration(sourceTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_SOURCE_TIMEOUT %q: %w", sourceTimeoutStr, err)
	}
	cfg.RateSourceTimeout = sourceTimeout

	stalenessStr := viper.GetString("RATE_STALENESS_MAX_AGE")
	staleness, err := time.ParseDuration(stalenessStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_STALENESS_MAX_AGE %q: %w", stalenessStr, err)
	}
	cfg.RateStalenessMaxAge = staleness

	return cfg, nil
}
