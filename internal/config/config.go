package config

import (
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"time"
)

var (
	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string

	HTTPAddr   string
	CORSOrigin string
	UploadDir  string

	MaxConcurrentImports int
	StatsCacheTTL        time.Duration

	LogLevel  string
	LogFormat string
)

func init() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	Load()
}

// Load (re)reads every setting from the environment.
func Load() {
	DBDriver = getEnv("DB_DRIVER", "postgres")
	DBHost = getEnv("DB_HOST", "localhost")
	DBUser = os.Getenv("DB_USER")
	DBPassword = os.Getenv("DB_PASSWORD")
	DBName = getEnv("DB_NAME", "studentdb")
	DBPort = getEnv("DB_PORT", "5432")
	SQLitePath = getEnv("SQLITE_PATH", "gradebook.db")

	HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	CORSOrigin = getEnv("CORS_ORIGIN", "http://localhost:3000")
	UploadDir = getEnv("UPLOAD_DIR", "uploads")

	MaxConcurrentImports = getInt("MAX_CONCURRENT_IMPORTS", 2)
	StatsCacheTTL = getDuration("STATS_CACHE_TTL", 30*time.Second)

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "text")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
