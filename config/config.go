package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvDevelopment enables .env loading and diagnostic error bodies.
	EnvDevelopment = "development"
	// EnvProduction is everything the development mode is not.
	EnvProduction = "production"
)

// Store drivers for the user directory.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	ServerPort  int
	Environment string
	JWTSecret   string
	TokenTTL    time.Duration
	Store       string
	Database    DatabaseConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// IsDevelopment reports whether diagnostic behavior is enabled.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func LoadConfig() Config {
	environment := getEnv("ENVIRONMENT", EnvDevelopment)
	if environment == EnvDevelopment {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "recruithub"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "recruithub_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	return Config{
		ServerPort:  getEnvInt("SERVER_PORT", 8080),
		Environment: environment,
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),
		Store:       getEnv("STORE", StoreMemory),
		Database:    dbConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "true" || valueStr == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
