package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultLogLevel = "info"
	defaultEnv      = "development"
	defaultCurrency = "IDR"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env      string
	DBPath   string
	Port     string
	LogLevel string
	Currency string
}

// Load reads environment variables and returns a populated Config.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Env:      envOr("APP_ENV", defaultEnv),
		DBPath:   envOr("DB_PATH", defaultDBPath),
		Port:     envOr("PORT", defaultPort),
		LogLevel: envOr("LOG_LEVEL", defaultLogLevel),
		Currency: strings.ToUpper(envOr("CURRENCY", defaultCurrency)),
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
