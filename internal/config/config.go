// Package config reads service settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/napolitain/battle-lnk/internal/models"
	"github.com/napolitain/battle-lnk/internal/troops"
)

// Config holds the battle service settings
type Config struct {
	Addr    string `env:"BATTLE_ADDR" envDefault:":8080"`
	DataDir string `env:"BATTLE_DATA_DIR" envDefault:"data"`
	// ScenariosDir holds battle files served by name; a missing directory serves none
	ScenariosDir string `env:"BATTLE_SCENARIOS_DIR" envDefault:"examples"`
	// Seed fixes the random source of every battle; 0 seeds from the clock
	Seed int64 `env:"BATTLE_SEED"`

	DecayThreshold     int     `env:"BATTLE_DECAY_THRESHOLD" envDefault:"500"`
	DecayRate          float64 `env:"BATTLE_DECAY_RATE" envDefault:"0.07"`
	DecayMinEfficiency float64 `env:"BATTLE_DECAY_MIN_EFFICIENCY" envDefault:"0.10"`

	// CasualtiesEnemies makes hostile captains lose troops too
	CasualtiesEnemies bool `env:"BATTLE_CASUALTIES_ENEMIES"`
	// MaxActions caps the work of one request; a capped battle is reported as a draw. 0 disables it.
	MaxActions int  `env:"BATTLE_MAX_ACTIONS" envDefault:"100000"`
	LogDev     bool `env:"BATTLE_LOG_DEV"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the service config
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Decay().Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.MaxActions < 0 {
		return Config{}, fmt.Errorf("config: BATTLE_MAX_ACTIONS must not be negative, got %d", cfg.MaxActions)
	}
	return cfg, nil
}

// Decay returns the hostile troop tuning
func (c Config) Decay() troops.DecayConfig {
	return troops.DecayConfig{
		Threshold:     c.DecayThreshold,
		DecayRate:     c.DecayRate,
		MinEfficiency: c.DecayMinEfficiency,
	}
}

// CasualtySides returns the sides whose captains lose troops
func (c Config) CasualtySides() []models.Side {
	if c.CasualtiesEnemies {
		return []models.Side{models.Allies, models.Enemies}
	}
	return []models.Side{models.Allies}
}

// Logger builds a development logger when LogDev is set, a production one otherwise
func (c Config) Logger() (*zap.Logger, error) {
	if c.LogDev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
