package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Lifecycle LifecycleConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	HubLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Driver         string // "postgres" or "sqlite"
	Connection     string
	MaxIdleConns   int
	MaxOpenConns   int
	MigrateAtStart bool
	LogLevel       string // "silent", "error", "warn", "info"
}

type LifecycleConfig struct {
	DefaultListLimit int
	MaxListLimit     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			HubLogFilePath:     getEnv("HUB_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Connection:     getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns:   getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:   getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MigrateAtStart: getEnvAsBool("DB_MIGRATE_AT_START", true),
			LogLevel:       getEnv("DB_LOG_LEVEL", "warn"),
		},
		Lifecycle: LifecycleConfig{
			DefaultListLimit: getEnvAsInt("CONVERSATION_LIST_DEFAULT_LIMIT", 20),
			MaxListLimit:     getEnvAsInt("CONVERSATION_LIST_MAX_LIMIT", 100),
		},
	}
}

// Validate reports settings the server must not start without.
func (c *Config) Validate() error {
	if c.App.JwtSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
