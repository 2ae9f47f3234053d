package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the content blob store.
// Any S3-compatible endpoint works (MinIO, AWS S3, Cloudflare R2).
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds settings for the distributed rate-limit counter.
// An empty URL disables the Redis backend entirely.
type RedisConfig struct {
	URL     string
	Timeout time.Duration
}

// RateLimitConfig selects the admission-control backend and per-action limits.
// Backend is "redis" or "memory"; the redis backend still degrades to the
// in-memory approximation when the counter store is unreachable.
type RateLimitConfig struct {
	Backend        string
	CreatePerMin   int
	ViewPerMin     int
	DecryptPer5Min int
}

// PasteConfig holds lifecycle tunables.
type PasteConfig struct {
	MaxContentBytes int64
	IDLength        int
	OpTimeout       time.Duration
	SweepInterval   time.Duration
	SweepBatchSize  int
	IPHashPepper    string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Paste     PasteConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "pastes"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			Timeout: getEnvDuration("REDIS_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			Backend:        getEnv("RATELIMIT_BACKEND", "memory"),
			CreatePerMin:   getEnvInt("RATELIMIT_CREATE_PER_MIN", 10),
			ViewPerMin:     getEnvInt("RATELIMIT_VIEW_PER_MIN", 60),
			DecryptPer5Min: getEnvInt("RATELIMIT_DECRYPT_PER_5MIN", 5),
		},
		Paste: PasteConfig{
			MaxContentBytes: int64(getEnvInt("PASTE_MAX_CONTENT_BYTES", 2_000_000)),
			IDLength:        getEnvInt("PASTE_ID_LENGTH", 12),
			OpTimeout:       getEnvDuration("PASTE_OP_TIMEOUT", 5*time.Second),
			SweepInterval:   getEnvDuration("PASTE_SWEEP_INTERVAL", 5*time.Minute),
			SweepBatchSize:  getEnvInt("PASTE_SWEEP_BATCH_SIZE", 100),
			IPHashPepper:    getEnv("PASTE_IP_HASH_PEPPER", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
