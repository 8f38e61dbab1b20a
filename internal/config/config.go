package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HostNFly HostNFlyConfig
	Monitor  MonitorConfig
	Redis    RedisConfig
	History  HistoryConfig
}

type HostNFlyConfig struct {
	Host     string
	Email    string
	Password string

	// Previously stored session tokens. When all three are set the
	// client can run without a password until the session expires.
	AccessToken string
	Client      string
	UID         string

	TransfersPath string
}

type MonitorConfig struct {
	ScanInterval  time.Duration
	LookbackDays  int
	LookaheadDays int
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

type HistoryConfig struct {
	// Postgres DSN; empty disables history recording.
	DatabaseURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	email := os.Getenv("HOSTNFLY_EMAIL")
	if email == "" {
		return nil, fmt.Errorf("HOSTNFLY_EMAIL is required")
	}

	config := &Config{
		HostNFly: HostNFlyConfig{
			Host:          getEnv("HOSTNFLY_HOST", "https://api.hostnfly.com"),
			Email:         email,
			Password:      os.Getenv("HOSTNFLY_PASSWORD"),
			AccessToken:   os.Getenv("HOSTNFLY_ACCESS_TOKEN"),
			Client:        os.Getenv("HOSTNFLY_CLIENT"),
			UID:           os.Getenv("HOSTNFLY_UID"),
			TransfersPath: getEnv("HOSTNFLY_TRANSFERS_PATH", "/api/v1/transfers"),
		},
		Monitor: MonitorConfig{
			ScanInterval:  time.Duration(getEnvInt("SCAN_INTERVAL_MINUTES", 15)) * time.Minute,
			LookbackDays:  getEnvInt("LOOKBACK_DAYS", 30),
			LookaheadDays: getEnvInt("LOOKAHEAD_DAYS", 180),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			SnapshotTTL: time.Duration(getEnvInt("SNAPSHOT_TTL_HOURS", 24)) * time.Hour,
		},
		History: HistoryConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
	}

	if config.HostNFly.Password == "" && config.HostNFly.AccessToken == "" {
		return nil, fmt.Errorf("either HOSTNFLY_PASSWORD or stored session tokens are required")
	}

	return config, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets environment variable as integer with default value
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
