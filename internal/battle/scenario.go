package battle

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/napolitain/battle-lnk/internal/assembly"
	"github.com/napolitain/battle-lnk/internal/models"
	"github.com/napolitain/battle-lnk/internal/troops"
)

// Setup is everything needed to start a battle from a battle file
type Setup struct {
	// Base is the decay tuning the file's decay block is applied over
	Base troops.DecayConfig
	// CasualtySides is used when the file names none
	CasualtySides []models.Side
	Logger        *zap.Logger
}

// FromConfig assembles both rosters of cfg against catalog and returns a
// ready engine. Options in opts are applied last and win over the file.
func FromConfig(cfg *models.BattleConfig, catalog *assembly.Catalog, setup Setup, opts ...Option) (*Engine, error) {
	if err := models.ValidateBattleConfig(cfg); err != nil {
		return nil, err
	}
	logger := setup.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := setup.Base
	if base == (troops.DecayConfig{}) {
		base = troops.DefaultDecayConfig()
	}
	decay := base.With(cfg.Decay)
	if err := decay.Validate(); err != nil {
		return nil, fmt.Errorf("battle %q: %w", cfg.Name, err)
	}

	asm := assembly.New(catalog, assembly.WithLogger(logger), assembly.WithDecayConfig(decay))
	allies := asm.Build(cfg.Allies, models.Allies)
	enemies := asm.Build(cfg.Enemies, models.Enemies)

	engineOpts := []Option{WithLogger(logger), WithDecayConfig(decay)}
	if cfg.Seed != nil {
		engineOpts = append(engineOpts, WithSeed(*cfg.Seed))
	}
	switch {
	case len(cfg.CasualtySides) > 0:
		engineOpts = append(engineOpts, WithCasualtySides(cfg.CasualtySides...))
	case setup.CasualtySides != nil:
		engineOpts = append(engineOpts, WithCasualtySides(setup.CasualtySides...))
	}
	if cfg.Focus != "" {
		id, ok := resolveFocus(enemies, cfg.Focus)
		if !ok {
			logger.Warn("focus target not among enemies", zap.String("focus", cfg.Focus))
		} else {
			engineOpts = append(engineOpts, WithFocus(id))
		}
	}

	return New(allies, enemies, append(engineOpts, opts...)...), nil
}

// resolveFocus matches a focus by unit ID first, then by name
func resolveFocus(enemies []models.BattleUnit, focus string) (string, bool) {
	for _, u := range enemies {
		if u.ID == focus {
			return u.ID, true
		}
	}
	for _, u := range enemies {
		if strings.EqualFold(u.Name, focus) {
			return u.ID, true
		}
	}
	return "", false
}
