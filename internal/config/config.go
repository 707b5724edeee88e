package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL is the root of the remote storefront API, e.g.
	// http://213.171.25.9:3003/api/v1. Required.
	APIBaseURL string

	// ServerURL, when set, replaces the host part of product image links
	// returned by the API (the API sometimes hands out localhost links).
	ServerURL string

	RequestTimeout time.Duration

	// StoragePath is the sqlite file backing the device secure storage.
	StoragePath string

	LogLevel string

	// DefaultAddress is the delivery address used for order drafts.
	DefaultAddress string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		ServerURL:      os.Getenv("SERVER_URL"),
		RequestTimeout: time.Duration(EnvIntDefault("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		StoragePath:    EnvDefault("STORAGE_PATH", "shop_mobile.db"),
		LogLevel:       EnvDefault("LOG_LEVEL", "info"),
		DefaultAddress: EnvDefault("DEFAULT_ADDRESS", "Tokyo, Betatestovaya 4-4-4 4-ku"),
	}
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
