// Package config provides application configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Config holds all client configuration. Values come from the environment
// (optionally seeded from a .env file) and are fixed for the lifetime of
// the process.
type Config struct {
	BackendURL     string
	GoogleClientID string
	TokenPath      string
	CallbackAddr   string
	LogLevel       string
}

const defaultCallbackAddr = "127.0.0.1:8437"

// Load reads configuration from environment variables. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := &Config{
		BackendURL:     getEnv("CRICKET_BACKEND_URL", ""),
		GoogleClientID: getEnv("CRICKET_GOOGLE_CLIENT_ID", ""),
		TokenPath:      getEnv("CRICKET_TOKEN_PATH", ""),
		CallbackAddr:   getEnv("CRICKET_CALLBACK_ADDR", defaultCallbackAddr),
		LogLevel:       getEnv("CRICKET_LOG_LEVEL", "info"),
	}

	if cfg.TokenPath == "" {
		p, err := defaultTokenPath()
		if err != nil {
			return nil, err
		}
		cfg.TokenPath = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("CRICKET_BACKEND_URL cannot be empty")
	}
	if c.TokenPath == "" {
		return errors.New("token path cannot be empty")
	}
	if c.CallbackAddr == "" {
		return errors.New("CRICKET_CALLBACK_ADDR cannot be empty")
	}
	return nil
}

func defaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(dir, "cricket", "token"), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
