package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	APIBaseURL      string
	HTTPAddr        string
	AppTitle        string
	OrderOutputDir  string
	CredentialsFile string
	ShutdownTimeout time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:      envOrDefault("API_BASE_URL", "http://localhost:8080"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		AppTitle:        envOrDefault("APP_TITLE", "Red Store"),
		OrderOutputDir:  envOrDefault("ORDER_OUTPUT_DIR", "."),
		CredentialsFile: envOrDefault("CREDENTIALS_FILE", defaultCredentialsFile()),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".redstore-credentials.json"
	}
	return filepath.Join(home, ".redstore", "credentials.json")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
