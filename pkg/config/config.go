package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Redis configuration struct.
type RedisConfiguration struct {
	Host     string
	Port     string
	Password string
}

// DatabaseConfiguration holds the postgres connection and migration settings.
type DatabaseConfiguration struct {
	DSN            string
	Database       string
	MigrationsPath string
}

// BucketConfiguration is the S3 compatible bucket used for log uploads.
type BucketConfiguration struct {
	Region       string
	Endpoint     string
	AccessKey    string
	AccessSecret string
	LogBucket    string
}

// StatsConfiguration holds the stats provider settings.
type StatsConfiguration struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	DefaultSeason     string
	DefaultSeasonType string
}

// Limit is a single rate limit window.
type Limit struct {
	Count         int
	ResetInterval time.Duration
}

// LimitsConfiguration holds the provider rate limit windows.
// SlowInterval is the fixed delay between background requests.
type LimitsConfiguration struct {
	Lower        Limit
	Higher       Limit
	SlowInterval time.Duration
}

// BreakerConfiguration holds the circuit breaker settings for the provider.
type BreakerConfiguration struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// GrpcConfiguration holds the fetcher gRPC server settings.
type GrpcConfiguration struct {
	Address string
	Port    string
}

// ApiConfiguration holds the HTTP API settings.
type ApiConfiguration struct {
	Port string
}

// LogConfiguration holds the logger settings.
type LogConfiguration struct {
	Level  string
	Format string
}

// SchedulerConfiguration holds the job intervals.
type SchedulerConfiguration struct {
	RefreshInterval time.Duration
	StaleAfter      time.Duration
}

// CacheConfiguration holds the TTLs of every cache layer.
type CacheConfiguration struct {
	ProfileTTL time.Duration
	MemoryTTL  time.Duration
	LockTTL    time.Duration
}

// Config is the full application configuration.
type Config struct {
	Environment string
	Redis       RedisConfiguration
	Database    DatabaseConfiguration
	Bucket      BucketConfiguration
	Stats       StatsConfiguration
	Limits      LimitsConfiguration
	Breaker     BreakerConfiguration
	Grpc        GrpcConfiguration
	Api         ApiConfiguration
	Log         LogConfiguration
	Scheduler   SchedulerConfiguration
	Cache       CacheConfiguration
}

// Load the .env (if not running on Docker) and read the configuration from the environment.
func Load() (*Config, error) {
	if os.Getenv("ENVIRONMENT") != "docker" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "local"),
		Redis: RedisConfiguration{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Database: DatabaseConfiguration{
			DSN:            os.Getenv("POSTGRES_DSN"),
			Database:       getEnv("POSTGRES_DB", "hoopstats"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Bucket: BucketConfiguration{
			Region:       getEnv("BUCKET_REGION", "auto"),
			Endpoint:     os.Getenv("BUCKET_ENDPOINT"),
			AccessKey:    os.Getenv("BUCKET_ACCESS_KEY"),
			AccessSecret: os.Getenv("BUCKET_ACCESS_SECRET"),
			LogBucket:    os.Getenv("BUCKET_LOG_BUCKET"),
		},
		Stats: StatsConfiguration{
			BaseURL:           getEnv("STATS_BASE_URL", "https://stats.nba.com/stats"),
			UserAgent:         getEnv("STATS_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			DefaultSeason:     getEnv("STATS_DEFAULT_SEASON", "2023-24"),
			DefaultSeasonType: getEnv("STATS_DEFAULT_SEASON_TYPE", "Regular Season"),
		},
		Grpc: GrpcConfiguration{
			Address: getEnv("FETCHER_GRPC_ADDRESS", "fetcher:50051"),
			Port:    getEnv("FETCHER_GRPC_PORT", "50051"),
		},
		Api: ApiConfiguration{
			Port: getEnv("API_PORT", "8080"),
		},
		Log: LogConfiguration{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	var err error
	if cfg.Stats.Timeout, err = getDuration("STATS_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	// The provider doesn't publish its limits, these are conservative defaults.
	if cfg.Limits.Lower.Count, err = getInt("LIMIT_LOWER_COUNT", 5); err != nil {
		return nil, err
	}
	if cfg.Limits.Lower.ResetInterval, err = getDuration("LIMIT_LOWER_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Limits.Higher.Count, err = getInt("LIMIT_HIGHER_COUNT", 100); err != nil {
		return nil, err
	}
	if cfg.Limits.Higher.ResetInterval, err = getDuration("LIMIT_HIGHER_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Limits.SlowInterval, err = getDuration("LIMIT_SLOW_INTERVAL", 2*time.Second); err != nil {
		return nil, err
	}

	maxRequests, err := getInt("BREAKER_MAX_REQUESTS", 1)
	if err != nil {
		return nil, err
	}
	minRequests, err := getInt("BREAKER_MIN_REQUESTS", 3)
	if err != nil {
		return nil, err
	}
	cfg.Breaker.MaxRequests = uint32(maxRequests)
	cfg.Breaker.MinRequests = uint32(minRequests)
	if cfg.Breaker.Interval, err = getDuration("BREAKER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Breaker.Timeout, err = getDuration("BREAKER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Breaker.FailureRatio, err = getFloat("BREAKER_FAILURE_RATIO", 0.6); err != nil {
		return nil, err
	}

	if cfg.Scheduler.RefreshInterval, err = getDuration("SCHEDULER_REFRESH_INTERVAL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Scheduler.StaleAfter, err = getDuration("SCHEDULER_STALE_AFTER", 30*24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.Cache.ProfileTTL, err = getDuration("CACHE_PROFILE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Cache.MemoryTTL, err = getDuration("CACHE_MEMORY_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Cache.LockTTL, err = getDuration("CACHE_LOCK_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RedisAddr returns the host:port pair of the redis server.
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// HasBucket reports whether the log bucket is configured.
func (c *Config) HasBucket() bool {
	return c.Bucket.LogBucket != "" && c.Bucket.Endpoint != ""
}

func getEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return parsed, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	// Every duration is a ticker, a window or a TTL.
	if parsed <= 0 {
		return 0, fmt.Errorf("duration for %s must be positive, got %s", key, value)
	}
	return parsed, nil
}
