package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, loaded once at startup and passed
// explicitly to the components that need it.
type Config struct {
	ServerPort string
	APIVersion string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxLife  time.Duration

	JWTSecret  string
	JWTExpires time.Duration

	FrontendURL string

	RateLimitWindow time.Duration
	RateLimitMax    int

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment. A .env file is picked up
// when present, real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		ServerPort: getEnv("PORT", "3001"),
		APIVersion: getEnv("API_VERSION", "v1"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "studio"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 5),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 2),
		DBConnMaxLife:  getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		JWTSecret:  getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpires: getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),

		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	log.Printf("Config loaded - ServerPort: %s, APIVersion: %s, DBHost: %s, DBName: %s",
		cfg.ServerPort, cfg.APIVersion, cfg.DBHost, cfg.DBName)

	return cfg
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d: %v", key, defaultValue, err)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid value for %s, using default %v: %v", key, defaultValue, err)
		return defaultValue
	}
	return d
}
