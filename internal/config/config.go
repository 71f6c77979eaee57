// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	SiteURL     string
	DBPath      string
	Gemini      GeminiConfig
	StatsPeriod time.Duration

	// PublicResults controls whether freshly stored results are listed in
	// the public feeds by default.
	PublicResults bool
}

// GeminiConfig configures the analysis backend.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	timeoutSec := getEnvInt("GEMINI_TIMEOUT_SECONDS", 60)
	if timeoutSec <= 0 {
		timeoutSec = 60
	}

	statsMin := getEnvInt("STATS_PERIOD_MINUTES", 60)
	if statsMin <= 0 {
		statsMin = 60
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		SiteURL:       getEnv("SITE_URL", ""),
		DBPath:        getEnv("DB_PATH", "./data/persona.db"),
		StatsPeriod:   time.Duration(statsMin) * time.Minute,
		PublicResults: getEnvBool("RESULTS_PUBLIC_DEFAULT", true),
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
			Model:   getEnv("GEMINI_MODEL", ""),
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
// A missing Gemini API key is allowed; analysis requests will fail with a
// clear error instead of the server refusing to start.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.StatsPeriod <= 0 {
		return fmt.Errorf("STATS_PERIOD_MINUTES must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.SiteURL == "" ||
		strings.Contains(c.SiteURL, "localhost") ||
		strings.Contains(c.SiteURL, "127.0.0.1")
}

// ResultURL builds the public URL for a stored result.
func (c *Config) ResultURL(resultID string) string {
	base := strings.TrimSuffix(c.SiteURL, "/")
	return base + "/result/" + resultID
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
