package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// TokenSecret signs session credentials. It is injected here and passed
	// to the token manager at construction; nothing else reads it.
	TokenSecret string
	TokenTTL    time.Duration

	// ObserverConnectionLimit caps how many caregivers an observer may
	// connect to. Zero means unlimited.
	ObserverConnectionLimit int

	UploadDir     string
	UploadMaxSize int64
	BlobBackend   string // "local" or "s3"

	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	EmailSender string
	EmailRegion string

	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DB_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./carelink.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		TokenSecret: getEnv("TOKEN_SECRET", ""),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),

		ObserverConnectionLimit: getEnvInt("OBSERVER_CONNECTION_LIMIT", 0),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		UploadMaxSize: getEnvInt64("UPLOAD_MAX_SIZE", 25*1024*1024),
		BlobBackend:   getEnv("BLOB_BACKEND", "local"),

		S3Region:    getEnv("S3_REGION", ""),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		EmailRegion: getEnv("EMAIL_REGION", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 5),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
