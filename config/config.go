package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	MaxRetries       int
	RetryBaseDelayMs int
	TransformWorkers int
	PriceCeiling     float64

	CSVOutputPath string
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "rental"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "rental123"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_market"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60*24)) * time.Minute,

		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		RetryBaseDelayMs: getEnvInt("RETRY_BASE_DELAY_MS", 500),
		TransformWorkers: getEnvInt("TRANSFORM_WORKERS", 4),
		PriceCeiling:     getEnvFloat("PRICE_CEILING", 1000),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// DSN returns the PostgreSQL connection string. Both lib/pq and the gorm
// postgres driver accept this keyword/value form.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// RedisAddr returns host:port for the session store.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// RetryBaseDelay is the first back-off interval for the calling layer's retries.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
