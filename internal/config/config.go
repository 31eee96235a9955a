package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	APIBaseURL     string
	TokenFile      string
	RequestTimeout time.Duration
	LiveFeed       bool
	DashboardPath  string
	LoginPath      string
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		TokenFile:      getEnv("TOKEN_FILE", defaultTokenFile()),
		RequestTimeout: getDuration("REQUEST_TIMEOUT_SECONDS", 30),
		LiveFeed:       getBool("LIVE_FEED", true),
		DashboardPath:  getEnv("DASHBOARD_PATH", "/dashboard"),
		LoginPath:      getEnv("LOGIN_PATH", "/login"),
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".backoffice-token"
	}
	return home + "/.backoffice-token"
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getDuration(key string, fallbackSeconds int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackSeconds) * time.Second
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return time.Duration(fallbackSeconds) * time.Second
	}
	return time.Duration(parsed) * time.Second
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
