package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	BlobBackendS3   = "s3"
	BlobBackendDisk = "disk"
)

type Config struct {
	DBDSN      string
	ServerPort string

	RedisHost string
	RedisPort string
	RedisUser string
	RedisPass string
	RedisDB   int
	RedisTLS  bool
	CacheTTL  time.Duration

	BlobBackend string
	BlobDir     string
	S3Bucket    string
	S3Endpoint  string
	AWSRegion   string

	// Static credentials, only used together with S3Endpoint.
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment (and .env, if present)
// and exits the process when it is unusable.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:      os.Getenv("DB_DSN"),
		ServerPort: getenv("SERVER_PORT", "8080"),

		RedisHost: getenv("REDIS_HOST", "localhost"),
		RedisPort: getenv("REDIS_PORT", "6379"),
		RedisUser: os.Getenv("REDIS_USER"),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisTLS:  parseBoolean(getenv("REDIS_SSL", "false")),

		BlobBackend: getenv("BLOB_BACKEND", BlobBackendS3),
		BlobDir:     getenv("BLOB_DIR", "./storage"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		AWSRegion:   getenv("AWS_REGION", "us-east-1"),

		AWSAccessKeyID:     getenv("AWS_ACCESS_KEY_ID", "x"),
		AWSSecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY", "x"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}

	dbNum, err := strconv.Atoi(getenv("REDIS_DB_NUM", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB_NUM: %w", err)
	}
	cfg.RedisDB = dbNum

	ttl, err := time.ParseDuration(getenv("CACHE_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL: %s is negative", ttl)
	}
	cfg.CacheTTL = ttl

	switch cfg.BlobBackend {
	case BlobBackendS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET is not set")
		}
	case BlobBackendDisk:
	default:
		return nil, fmt.Errorf("unknown BLOB_BACKEND %q", cfg.BlobBackend)
	}

	return cfg, nil
}

// ConfigureLogging applies the log level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func parseBoolean(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
