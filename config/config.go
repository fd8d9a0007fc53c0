package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config application settings
type Config struct {
	InventoryFile      string `envconfig:"INVENTORY_FILE" default:"inventario.json"`
	AutoSave           bool   `envconfig:"INVENTORY_AUTOSAVE" default:"false"`
	ActivityDBPath     string `envconfig:"ACTIVITY_DB_PATH"`
	ActivityMaxEntries int    `envconfig:"ACTIVITY_MAX_ENTRIES" default:"500"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"warn"`
}

var logLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// Load reads the .env file (or envFile when given) and then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		// .env is optional
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required values
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.InventoryFile) == "" {
		return errors.New("INVENTORY_FILE must not be empty")
	}
	if c.ActivityMaxEntries <= 0 {
		return fmt.Errorf("ACTIVITY_MAX_ENTRIES must be positive, got %d", c.ActivityMaxEntries)
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
