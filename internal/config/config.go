package config

import (
	"os"

	"github.com/joho/godotenv"
)

// StoreBackend selects where documents live: the service's own database or
// a remote json-server style document API.
const (
	StoreBackendDatabase = "database"
	StoreBackendRemote   = "remote"
)

type Config struct {
	DBDriver       string // postgres or mysql
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	StoreBackend   string
	ResourceAPIURL string // base URL of the remote document store
	Port           string
	GinMode        string
	LogLevel       string
	LogFile        string
}

func Load() *Config {
	// Missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	return &Config{
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "taskboard"),
		DBPassword:     getEnv("DB_PASSWORD", "taskboard"),
		DBName:         getEnv("DB_NAME", "taskboard"),
		StoreBackend:   getEnv("STORE_BACKEND", StoreBackendDatabase),
		ResourceAPIURL: getEnv("RESOURCE_API_URL", "http://localhost:4000"),
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
