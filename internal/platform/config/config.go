package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"

	MediaBackendS3   = "s3"
	MediaBackendDisk = "disk"
)

type Config struct {
	APIPort  string
	JWTKey   []byte
	JWTExp   time.Duration
	LogLevel string

	StorageBackend string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBConnStr      string

	RedisAddr      string // empty disables the filter-options cache
	RedisPassword  string
	RedisDB        int
	FilterCacheTTL time.Duration

	MediaBackend       string
	MediaUploadTimeout time.Duration
	MediaPublicBaseURL string // prefix of returned cover URLs; see CoverBaseURL
	MediaDiskDir       string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string

	// Statuses that cannot be left once entered. Empty allows every transition.
	TerminalStatuses []string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

func FromEnv() *Config {
	cfg := &Config{
		APIPort:  getEnv("API_PORT", "5000"),
		JWTKey:   []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:   time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendPostgres),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "user"),
		DBPassword:     getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "bookswap"),
		DBSslMode:      getEnv("DB_SSLMODE", "disable"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		FilterCacheTTL: time.Duration(getEnvAsInt("FILTER_CACHE_TTL_SECONDS", 300)) * time.Second,

		MediaBackend:       getEnv("MEDIA_BACKEND", MediaBackendDisk),
		MediaUploadTimeout: time.Duration(getEnvAsInt("MEDIA_UPLOAD_TIMEOUT_SECONDS", 30)) * time.Second,
		MediaPublicBaseURL: getEnv("MEDIA_PUBLIC_BASE_URL", ""),
		MediaDiskDir:       getEnv("MEDIA_DISK_DIR", "uploads"),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", "admin"),
		S3SecretKey:        getEnv("S3_SECRET_KEY", "secretpassword"),
		S3Bucket:           getEnv("S3_BUCKET", "book-covers"),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3BaseEndpoint:     getEnv("S3_BASE_ENDPOINT", "http://127.0.0.1:9000"),

		TerminalStatuses: getEnvAsList("BOOK_TERMINAL_STATUSES"),
	}

	cfg.DBConnStr = getEnv("DB_DSN", "")
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = "host=" + cfg.DBHost +
			" port=" + cfg.DBPort +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" sslmode=" + cfg.DBSslMode
	}
	return cfg
}

// CoverBaseURL is the prefix of cover URLs. Without MEDIA_PUBLIC_BASE_URL
// the disk backend points at the server's own /uploads route and S3
// derives URLs from its endpoint.
func (c *Config) CoverBaseURL() string {
	if c.MediaPublicBaseURL != "" || c.MediaBackend != MediaBackendDisk {
		return c.MediaPublicBaseURL
	}
	return "http://localhost:" + c.APIPort + "/uploads"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
