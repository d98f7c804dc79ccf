package app

import (
	"os"
	"strconv"
	"time"

	"github.com/jamescompany/qa-portal/pkg/jwtx"
)

type Config struct {
	Issuer    string // Required: issuer claim for access tokens
	JWTSecret string // Required: HS256 signing secret (>= 32 bytes)

	PublicBaseURL  string // Base URL the gateway is reachable at (for provider redirect URIs)
	SPACallbackURL string // SPA route that consumes OAuth results

	GoogleClientID     string // Optional: enables the google provider when set
	GoogleClientSecret string
	KakaoClientID      string // Optional: enables the kakao provider when set
	KakaoClientSecret  string
	LegacyBaseURL      string // Optional: enables the legacy provider when set
	LegacyClientID     string
	LegacyClientSecret string

	AccessTokenTTL  time.Duration // Access JWT lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Refresh token lifetime (default: 720h)

	DatabaseFile         string        // Path to SQLite database file (default: ./gateway.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token cleanup interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "qa-portal-gateway"),
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		PublicBaseURL:  getEnvOrDefault("AUTH_PUBLIC_BASE_URL", "http://localhost:8080"),
		SPACallbackURL: getEnvOrDefault("AUTH_SPA_CALLBACK_URL", "http://localhost:5173/auth/callback"),

		GoogleClientID:     os.Getenv("AUTH_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("AUTH_GOOGLE_CLIENT_SECRET"),
		KakaoClientID:      os.Getenv("AUTH_KAKAO_CLIENT_ID"),
		KakaoClientSecret:  os.Getenv("AUTH_KAKAO_CLIENT_SECRET"),
		LegacyBaseURL:      os.Getenv("AUTH_LEGACY_BASE_URL"),
		LegacyClientID:     os.Getenv("AUTH_LEGACY_CLIENT_ID"),
		LegacyClientSecret: os.Getenv("AUTH_LEGACY_CLIENT_SECRET"),

		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", 30*24*time.Hour),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "gateway.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values read as minutes for operator convenience.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
