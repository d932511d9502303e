package utils

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if one is present. Missing files
// are fine; deployed environments inject real env vars.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
