package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds process settings read from the environment. Command
// line flags take precedence over these values.
type ServerConfig struct {
	DBPath         string        `env:"DOGPATROL_DB" envDefault:"~/.dogpatrol/records.db"`
	DBPoolSize     int           `env:"DOGPATROL_DB_POOL" envDefault:"10"`
	StateFile      string        `env:"DOGPATROL_STATE_FILE"`
	SavePeriod     time.Duration `env:"DOGPATROL_SAVE_PERIOD"`
	TickPeriod     time.Duration `env:"DOGPATROL_TICK_PERIOD"`
	RandomizeSpawn bool          `env:"DOGPATROL_RANDOMIZE_SPAWN"`
}

// ParseEnv loads the server settings from environment variables.
func ParseEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
