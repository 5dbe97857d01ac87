// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/yourusername/shopping-assistant/internal/domain/constants"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	GeminiAPIKey   string
	TelegramToken  string
	AllowedOrigins []string

	DevicesCSVPath  string
	PlansCSVPath    string
	CatalogXLSXPath string
	CatalogDSN      string // optional Postgres catalog source

	MaxContextSize int
	HistoryWindow  int
	WorkerCount    int
}

// Load reads configuration, honoring a .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		AllowedOrigins:  splitList(os.Getenv("ALLOWED_ORIGINS")),
		DevicesCSVPath:  getEnv("DEVICES_CSV_PATH", "data/devices.csv"),
		PlansCSVPath:    getEnv("PLANS_CSV_PATH", "data/plans.csv"),
		CatalogXLSXPath: os.Getenv("CATALOG_XLSX_PATH"),
		CatalogDSN:      os.Getenv("CATALOG_DATABASE_URL"),
		MaxContextSize:  getEnvInt("MAX_CONTEXT_SIZE", constants.DefaultMaxContextSize),
		HistoryWindow:   getEnvInt("HISTORY_WINDOW", constants.DefaultHistoryWindow),
		WorkerCount:     getEnvInt("WORKER_COUNT", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the service cannot run without. The AI key
// is deliberately not required: without it the assistant answers with a
// fixed fallback instead of refusing to start.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.MaxContextSize <= 0 {
		return fmt.Errorf("MAX_CONTEXT_SIZE must be > 0")
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("HISTORY_WINDOW must be >= 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
