package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable via STORAGE_BACKEND.
const (
	StorageBackendS3         = "s3"
	StorageBackendFilesystem = "filesystem"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	StorageBackend string
	StoragePath    string
	StorageBaseURL string

	S3Bucket string
	S3Region string

	StudioBaseURL  string
	StudioAPIKey   string
	StudioUsername string
	StudioTimeout  time.Duration

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	GeoIPDBPath   string
	DefaultLocale string

	AllowedOrigins     []string
	RateLimitPerMinute int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	SourceFetchTimeout time.Duration
	TaskSoftTimeout    time.Duration
	TaskHardTimeout    time.Duration
	WorkerConcurrency  int
	JobPollInterval    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendFilesystem),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),

		S3Bucket: os.Getenv("AWS_STORAGE_BUCKET_NAME"),
		S3Region: os.Getenv("AWS_S3_REGION_NAME"),

		StudioBaseURL:  getEnv("STUDIO_BASE_URL", "https://api.draph.art/v1"),
		StudioAPIKey:   os.Getenv("STUDIO_API_KEY"),
		StudioUsername: getEnv("STUDIO_USERNAME", "bannerlab"),
		StudioTimeout:  time.Second * time.Duration(getEnvInt("STUDIO_TIMEOUT_SECONDS", 120)),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAITimeout: time.Second * time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 15)),

		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "ko"),

		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 0),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),

		SourceFetchTimeout: time.Second * time.Duration(getEnvInt("SOURCE_FETCH_TIMEOUT_SECONDS", 60)),
		TaskSoftTimeout:    time.Second * time.Duration(getEnvInt("TASK_SOFT_TIMEOUT_SECONDS", 270)),
		TaskHardTimeout:    time.Second * time.Duration(getEnvInt("TASK_HARD_TIMEOUT_SECONDS", 300)),
		WorkerConcurrency:  getEnvInt("WORKER_CONCURRENCY", 2),
		JobPollInterval:    time.Second * time.Duration(getEnvInt("JOB_POLL_INTERVAL_SECONDS", 2)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.StorageBackend != StorageBackendS3 && cfg.StorageBackend != StorageBackendFilesystem {
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q", StorageBackendS3, StorageBackendFilesystem)
	}

	if cfg.StorageBackend == StorageBackendS3 {
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("AWS_STORAGE_BUCKET_NAME and AWS_S3_REGION_NAME are required for s3 storage")
		}
	}

	if cfg.TaskSoftTimeout >= cfg.TaskHardTimeout {
		return nil, fmt.Errorf("TASK_SOFT_TIMEOUT_SECONDS must be below TASK_HARD_TIMEOUT_SECONDS")
	}

	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
