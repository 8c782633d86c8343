package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	Port           string
	RulesFile      string
	PollTimeout    int
	LogDevelopment bool
}

// LoadConfig reads settings from the environment, after loading
// a .env file if one is present.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("environment variable TELEGRAM_BOT_TOKEN is required but not set")
	}

	pollTimeout, err := strconv.Atoi(getEnv("POLL_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_TIMEOUT: %w", err)
	}

	logDev, err := strconv.ParseBool(getEnv("LOG_DEVELOPMENT", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_DEVELOPMENT: %w", err)
	}

	return &Config{
		TelegramToken:  token,
		Port:           getEnv("PORT", "8050"),
		RulesFile:      os.Getenv("RULES_FILE"),
		PollTimeout:    pollTimeout,
		LogDevelopment: logDev,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
