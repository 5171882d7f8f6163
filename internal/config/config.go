package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	TokenTTL         time.Duration
	ReminderInterval time.Duration
	ReminderWindow   time.Duration
	TelegramToken    string
	TelegramChatID   int64
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:             strings.TrimSpace(os.Getenv("PORT")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:         parseHours(strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS"))),
		ReminderInterval: parseHours(strings.TrimSpace(os.Getenv("REMINDER_INTERVAL_HOURS"))),
		ReminderWindow:   parseHours(strings.TrimSpace(os.Getenv("REMINDER_WINDOW_HOURS"))),
		TelegramToken:    strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be numeric: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskboard.db"
	}

	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 12 * time.Hour
	}

	if cfg.ReminderWindow == 0 {
		cfg.ReminderWindow = 24 * time.Hour
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
