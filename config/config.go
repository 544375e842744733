// Package config reads process configuration from the environment (and an
// optional .env file) and the player's persisted preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the environment-derived process configuration.
type Config struct {
	LogLevel     zerolog.Level
	LogFile      string
	DBPath       string // empty disables result recording
	SettingsPath string
	Seed         uint64
	HasSeed      bool
}

// Load reads .env files (if present) and then the environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := Config{
		LogLevel: zerolog.InfoLevel,
		LogFile:  getEnv("LOG_FILE", "mines.log"),
		DBPath:   os.Getenv("MINES_DB"),
	}

	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		cfg.LogLevel = lvl
	} else {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	cfg.SettingsPath = os.Getenv("MINES_SETTINGS")
	if cfg.SettingsPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("locate config dir: %w", err)
		}
		cfg.SettingsPath = filepath.Join(dir, "mines", "settings.yaml")
	}

	if v := os.Getenv("MINES_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse MINES_SEED: %w", err)
		}
		cfg.Seed, cfg.HasSeed = seed, true
	}
	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
