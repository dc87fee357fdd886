package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the engine tunables a host can override through the
// environment. Defaults match the documented constants; overriding is
// for experimentation, not normal operation.
type Config struct {
	LogLevel string `env:"SETSENSE_LOG_LEVEL" envDefault:"info"`

	// Path to a usage-stats JSON dump to preload, empty to skip.
	StatsPath string `env:"SETSENSE_STATS_PATH"`

	// Correlation multipliers.
	MoveSynergyBoost float64 `env:"SETSENSE_MOVE_SYNERGY_BOOST" envDefault:"1.5"`
	MoveItemBoost    float64 `env:"SETSENSE_MOVE_ITEM_BOOST" envDefault:"1.3"`
	AbilityItemBoost float64 `env:"SETSENSE_ABILITY_ITEM_BOOST" envDefault:"2.0"`
}

// Load reads the .env file named by SETSENSE_ENV (default ".env") if
// present, then parses the environment into a Config.
func Load() (*Config, error) {
	envFile := os.Getenv("SETSENSE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing env files are fine; the environment may be set directly.
	_ = godotenv.Load(envFile)

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
