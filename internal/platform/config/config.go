package config

import (
	"log"
	"log/slog"
	"strings"
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
	LogLevel      slog.Level

	// Exchange rate provider
	FXProviderURL  string
	FXCacheTTL     time.Duration
	FXFetchTimeout time.Duration
	FXFetchRetries int
	FXRetryBackoff time.Duration

	// Optional shared rate-table cache; empty disables it.
	RedisURL string

	// HTTP surface
	RateLimit          string
	CORSAllowedOrigins []string
}

const (
	defaultProviderURL  = "https://api.exchangerate-api.com/v4"
	defaultCacheTTL     = time.Hour
	defaultFetchTimeout = 5 * time.Second
	defaultRetryBackoff = 250 * time.Millisecond
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("FX_PROVIDER_URL", defaultProviderURL)
	viper.SetDefault("FX_CACHE_TTL", defaultCacheTTL.String())
	viper.SetDefault("FX_FETCH_TIMEOUT", defaultFetchTimeout.String())
	viper.SetDefault("FX_FETCH_RETRIES", 2)
	viper.SetDefault("FX_RETRY_BACKOFF", defaultRetryBackoff.String())
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = parseLogLevel(viper.GetString("LOG_LEVEL"))

	cfg.FXProviderURL = strings.TrimRight(viper.GetString("FX_PROVIDER_URL"), "/")
	if cfg.FXProviderURL == "" {
		cfg.FXProviderURL = defaultProviderURL
		log.Printf("Warning: FX_PROVIDER_URL not set. Defaulting to %s.\n", cfg.FXProviderURL)
	}

	cfg.FXCacheTTL = durationOrDefault("FX_CACHE_TTL", defaultCacheTTL)
	cfg.FXFetchTimeout = durationOrDefault("FX_FETCH_TIMEOUT", defaultFetchTimeout)
	cfg.FXRetryBackoff = durationOrDefault("FX_RETRY_BACKOFF", defaultRetryBackoff)

	cfg.FXFetchRetries = viper.GetInt("FX_FETCH_RETRIES")
	if cfg.FXFetchRetries < 0 {
		log.Printf("Warning: Invalid value for FX_FETCH_RETRIES (%d). Defaulting to 0.\n", cfg.FXFetchRetries)
		cfg.FXFetchRetries = 0
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func parseLogLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
