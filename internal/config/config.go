package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Auth modes for the database and object store.
const (
	AuthStatic = "static"
	AuthIAM    = "iam"
)

// Cache backends for signed URLs.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration values from environment.
type Config struct {
	AppPort string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	AuthMode    string
	DBTokenFile string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool
	SignedURLTTL   time.Duration

	CacheBackend string
	CacheSize    int
	RedisHost    string
	RedisPort    string

	SessionTTL       time.Duration
	MaxUploadBytes   int64
	MaxArchiveBytes  int64
	MaxImportBytes   int64
	MaxImportEntries int

	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	minioSSL, err := boolEnv("MINIO_SSL", false)
	if err != nil {
		return nil, err
	}
	signedURLTTL, err := durationEnv("SIGNED_URL_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := durationEnv("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	cacheSize, err := intEnv("CACHE_SIZE", 1024)
	if err != nil {
		return nil, err
	}
	maxUploadMB, err := intEnv("MAX_UPLOAD_MB", 25)
	if err != nil {
		return nil, err
	}
	maxArchiveMB, err := intEnv("MAX_ARCHIVE_MB", 200)
	if err != nil {
		return nil, err
	}
	maxImportMB, err := intEnv("MAX_IMPORT_MB", 512)
	if err != nil {
		return nil, err
	}
	maxImportEntries, err := intEnv("MAX_IMPORT_ENTRIES", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppPort:          stringEnv("APP_PORT", "8080"),
		DBDriver:         strings.ToLower(stringEnv("DB_DRIVER", DriverPostgres)),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           stringEnv("DB_PORT", "5432"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBSSLMode:        stringEnv("DB_SSLMODE", "disable"),
		DBPath:           stringEnv("DB_PATH", "photos.db"),
		AuthMode:         strings.ToLower(stringEnv("AUTH_MODE", AuthStatic)),
		DBTokenFile:      os.Getenv("DB_TOKEN_FILE"),
		MinioEndpoint:    os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:   os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:   os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:      stringEnv("CONTAINER_NAME", "photos"),
		MinioSSL:         minioSSL,
		SignedURLTTL:     signedURLTTL,
		CacheBackend:     strings.ToLower(stringEnv("CACHE_BACKEND", CacheMemory)),
		CacheSize:        cacheSize,
		RedisHost:        stringEnv("REDIS_HOST", "localhost"),
		RedisPort:        stringEnv("REDIS_PORT", "6379"),
		SessionTTL:       sessionTTL,
		MaxUploadBytes:   int64(maxUploadMB) << 20,
		MaxArchiveBytes:  int64(maxArchiveMB) << 20,
		MaxImportBytes:   int64(maxImportMB) << 20,
		MaxImportEntries: maxImportEntries,
		LogLevel:         stringEnv("LOG_LEVEL", "info"),
		LogFormat:        stringEnv("LOG_FORMAT", "json"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AuthMode {
	case AuthStatic, AuthIAM:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("database configuration is incomplete")
		}
		if c.AuthMode == AuthIAM && c.DBTokenFile == "" {
			return fmt.Errorf("DB_TOKEN_FILE is required when AUTH_MODE=iam")
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	if c.MinioEndpoint == "" || c.MinioBucket == "" {
		return fmt.Errorf("minio configuration is incomplete")
	}
	if c.AuthMode == AuthStatic && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		return fmt.Errorf("minio configuration is incomplete")
	}

	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}
	if c.SignedURLTTL <= 0 || c.SessionTTL <= 0 {
		return fmt.Errorf("SIGNED_URL_TTL and SESSION_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 || c.MaxArchiveBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB and MAX_ARCHIVE_MB must be positive")
	}
	if c.MaxImportBytes <= 0 || c.MaxImportEntries <= 0 {
		return fmt.Errorf("MAX_IMPORT_MB and MAX_IMPORT_ENTRIES must be positive")
	}
	return nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s value", key)
	}
	return b, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s value", key)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s value", key)
	}
	return d, nil
}
