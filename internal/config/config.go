package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Firestore FirestoreConfig
	CORS      CORSConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Path string
}

// FirestoreConfig selects the Firestore-backed content/program provider when
// a project id is set; otherwise the sqlite stores serve content too.
type FirestoreConfig struct {
	ProjectID string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SecurityConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type LoggingConfig struct {
	Level       string // debug, info, warn, error
	EnableDebug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/app.db"),
		},
		Firestore: FirestoreConfig{
			ProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
			},
		},
		Security: SecurityConfig{
			RateLimitRequests: getEnvInt("SECURITY_RATE_LIMIT_REQUESTS", 100),
			RateLimitWindow:   getEnvDuration("SECURITY_RATE_LIMIT_WINDOW", time.Minute),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			EnableDebug: getEnv("ENV", "production") == "development",
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
