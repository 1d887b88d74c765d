// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the whole server configuration.
// It is read once at startup and treated as immutable.
type Config struct {
	// Server
	Port   string
	DBPath string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// Frontend
	ClientURL      string // CORS origin
	AuthSuccessURL string // redirect after login
	AuthFailureURL string // redirect after a failed login

	// Session
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// Rate limit, requests per user per minute on /api/notes. 0 disables.
	RateLimitPerMinute int

	// Logging
	LogLevel string
}

// Load reads Config from environment variables.
// It returns an error listing every required variable that is unset.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}

	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if len(cfg.SessionSecret) < 16 {
		return nil, errors.New("SESSION_SECRET must be at least 16 characters")
	}

	// Optional fields with defaults
	cfg.Port = getEnvString("PORT", "3000")
	cfg.DBPath = getEnvString("DB_PATH", "data/notes.db")
	cfg.GoogleCallbackURL = getEnvString("GOOGLE_CALLBACK_URL",
		"http://localhost:"+cfg.Port+"/auth/google/callback")
	cfg.ClientURL = strings.TrimSuffix(getEnvString("CLIENT_URL", "http://localhost:3001"), "/")
	cfg.AuthSuccessURL = getEnvString("AUTH_SUCCESS_URL", cfg.ClientURL+"/dashboard")
	cfg.AuthFailureURL = getEnvString("AUTH_FAILURE_URL", cfg.ClientURL+"/login")
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 24*time.Hour)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.CookieSecure = strings.HasPrefix(cfg.GoogleCallbackURL, "https://")

	return cfg, nil
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
