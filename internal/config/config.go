package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"storefront-client/internal/pkg/jwt"
	"storefront-client/internal/transport/apiclient"
)

// Credential storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type AppConfig struct {
	// Server
	HTTPAddr    string
	Env         string
	CORSOrigins []string

	// Collaborator API
	API apiclient.Config

	// Credential storage
	CredentialBackend string
	CredentialKey     string
	RedisAddr         string
	RedisPass         string
	RedisDB           int
	DatabaseURL       string

	// JWT
	JWT jwt.Config
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		Env:         strings.ToLower(getEnv("APP_ENV", "production")),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),

		API: apiclient.Config{
			BaseURL:     getEnv("API_BASE_URL", "http://localhost:4000"),
			FallbackURL: getEnv("API_FALLBACK_URL", ""),
			Timeout:     getEnvDuration("API_TIMEOUT", 10*time.Second),
		},

		CredentialBackend: strings.ToLower(getEnv("CREDENTIAL_BACKEND", BackendMemory)),
		CredentialKey:     getEnv("CREDENTIAL_KEY", "token"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         getEnv("REDIS_PASS", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		DatabaseURL:       getEnv("DATABASE_URL", ""),

		JWT: jwt.Config{
			PubPath: getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Issuer:  getEnv("JWT_ISSUER", ""),
		},
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
