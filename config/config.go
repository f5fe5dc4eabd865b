package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL    string
	Port     string
	LogLevel string

	// Optional startup seeding: an accounts description file and a target
	// allocation file loaded into SeedUserID's data on boot.
	SeedAccounts string
	SeedTarget   string
	SeedUserID   int64
}

// Load reads configuration from a .env file and environment variables; shell
// environment takes precedence over the .env file
func Load() (*Config, error) {
	// Missing .env just means shell-only configuration.
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	seedUserID := int64(1)
	if v := os.Getenv("SEED_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SEED_USER_ID must be an integer: %w", err)
		}
		seedUserID = id
	}

	return &Config{
		PGURL:        pgURL,
		Port:         port,
		LogLevel:     logLevel,
		SeedAccounts: os.Getenv("SEED_ACCOUNTS"),
		SeedTarget:   os.Getenv("SEED_TARGET"),
		SeedUserID:   seedUserID,
	}, nil
}
