package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/simonvc/minipnl/internal/logger"
)

type Config struct {
	// HTTP server
	Addr string

	// Database
	DBPath string

	// Client commands
	ServerURL string

	LogLevel string

	// Insights (Gemini)
	GeminiAPIKey    string
	InsightsModel   string
	InsightsTimeout time.Duration
}

// Load reads a .env file when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Addr:      getEnv("MINIPNL_ADDR", ":8080"),
		DBPath:    getEnv("MINIPNL_DB", "minipnl.db"),
		ServerURL: getEnv("MINIPNL_SERVER", "http://localhost:8080"),
		LogLevel:  getEnv("MINIPNL_LOG_LEVEL", "info"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		InsightsModel:   getEnv("MINIPNL_INSIGHTS_MODEL", "gemini-2.5-flash"),
		InsightsTimeout: getEnvDuration("MINIPNL_INSIGHTS_TIMEOUT", 60*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		errors = append(errors, fmt.Sprintf("invalid listen address '%s': %v", c.Addr, err))
	}

	if strings.TrimSpace(c.DBPath) == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if u, err := url.Parse(c.ServerURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid server URL '%s': %v", c.ServerURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid server URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if c.InsightsModel == "" {
		errors = append(errors, "insights model cannot be empty")
	}
	if c.InsightsTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid insights timeout %v: must be at least 1 second", c.InsightsTimeout))
	} else if c.InsightsTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid insights timeout %v: must be at most 10 minutes", c.InsightsTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// InsightsEnabled reports whether a Gemini key is configured.
func (c *Config) InsightsEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
