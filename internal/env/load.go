package env

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file from the working directory when there is one.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, assuming environment variables are set directly.")
	}
}

// MustGetEnv returns the value of key or exits when it is not set.
func MustGetEnv(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		slog.Error("Environment variable not set", "key", key)
		os.Exit(1)
	}
	return val
}

// GetEnv returns the value of key, or def when it is unset or empty.
func GetEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

// GetFloat parses key as a float. ok is false when the variable is unset.
func GetFloat(key string) (float64, bool, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, true, err
	}
	return f, true, nil
}
