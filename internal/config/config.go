package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	Port     string
	LogLevel string

	// MarketProvider selects the quote source: "simulated" or "yahoo"
	MarketProvider string
	YahooBaseURL   string
	QuoteCacheTTL  time.Duration

	// Upload sessions expire after this duration of inactivity
	SessionTTL         time.Duration
	MaxUploadSizeBytes int64
}

// Cfg is the global instance of the AppConfig
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MarketProvider:     getEnv("MARKET_PROVIDER", "simulated"),
		YahooBaseURL:       getEnv("YAHOO_BASE_URL", ""),
		QuoteCacheTTL:      getEnvDuration("QUOTE_CACHE_TTL", 15*time.Minute),
		SessionTTL:         getEnvDuration("SESSION_TTL", 4*time.Hour),
		MaxUploadSizeBytes: getEnvInt64("MAX_UPLOAD_SIZE_BYTES", 5*1024*1024),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getEnvInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, raw, fallback)
		return fallback
	}
	return n
}
