// Package config loads server configuration from the environment, with a
// .env file picked up when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server binary needs to boot
type Config struct {
	Port         string
	Environment  string
	DatabasePath string
	JWTSecret    []byte
	MediaRoot    string
	MediaBaseURL string
	GenAIKey     string
	LogPath      string
}

// Load reads configuration from the environment. A missing .env file is
// fine; a missing JWT_SECRET is not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8787"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		DatabasePath: getEnv("DATABASE_PATH", "worldwide.db"),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		MediaRoot:    getEnv("MEDIA_ROOT", "media"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", "/media"),
		GenAIKey:     os.Getenv("GENAI_API_KEY"),
		LogPath:      getEnv("LOG_PATH", "logs/worldwide.log"),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
