package assembly

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/napolitain/battle-lnk/internal/models"
	"github.com/napolitain/battle-lnk/internal/troops"
)

// LevelStep is the stat gain per level above 1
const LevelStep = 0.2

// levelDen expresses LevelStep as 1/levelDen so scaling stays in integers
const levelDen = 5

// DefaultHealthPerLevel is used for characters that carry no health value
const DefaultHealthPerLevel = 10

// LevelMultiplier returns 1 + (level-1)*0.2; levels below 1 count as 1
func LevelMultiplier(level int) float64 {
	level = max(level, 1)
	return 1 + float64(level-1)*LevelStep
}

// ScaleToLevel applies LevelMultiplier to v exactly, flooring the result
func ScaleToLevel(v, level int) int {
	level = max(level, 1)
	return v * (levelDen + level - 1) / levelDen
}

// Assembler builds battle units from a catalog
type Assembler struct {
	catalog *Catalog
	decay   troops.DecayConfig
	logger  *zap.Logger
	newID   func() string
}

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger used to report skipped entries
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDecayConfig sets the diminishing-returns tuning for hostile troops
func WithDecayConfig(cfg troops.DecayConfig) Option {
	return func(a *Assembler) { a.decay = cfg }
}

// WithIDGenerator replaces the UUID generator (tests use sequential IDs)
func WithIDGenerator(fn func() string) Option {
	return func(a *Assembler) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// New creates an assembler over catalog (the default catalog when nil)
func New(catalog *Catalog, opts ...Option) *Assembler {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	a := &Assembler{
		catalog: catalog,
		decay:   troops.DefaultDecayConfig(),
		logger:  zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the catalog the assembler reads from
func (a *Assembler) Catalog() *Catalog { return a.catalog }

// FromDefinition scales a definition to level
func (a *Assembler) FromDefinition(def models.UnitDefinition, level int) models.BattleUnit {
	level = max(level, 1)
	health := ScaleToLevel(def.Health, level)

	return models.BattleUnit{
		ID:            a.newID(),
		Name:          def.Name,
		Role:          def.Role,
		Rarity:        def.Rarity,
		Level:         level,
		Attributes:    def.Attributes.ScaleRatio(levelDen+level-1, levelDen),
		MaxHealth:     health,
		CurrentHealth: health,
		IsAlive:       health > 0,
	}
}

// FromCatalog looks up name and scales it to level. A miss returns false.
func (a *Assembler) FromCatalog(name string, level int) (models.BattleUnit, bool) {
	def, ok := a.catalog.Lookup(name)
	if !ok {
		return models.BattleUnit{}, false
	}
	if level <= 0 {
		level = def.Level
	}
	return a.FromDefinition(def, level), true
}

// FromCharacter maps a character record directly, without level scaling
func (a *Assembler) FromCharacter(c models.Character) models.BattleUnit {
	level := c.CombatLevel()
	health := c.Health
	if health <= 0 {
		health = level * DefaultHealthPerLevel
	}
	role := c.Role
	if role == "" {
		role = models.Physical
	}

	return models.BattleUnit{
		ID:            a.newID(),
		Name:          c.Name,
		Role:          role,
		Level:         level,
		Attributes:    c.Attributes.ClampNonNegative(),
		MaxHealth:     health,
		CurrentHealth: health,
		IsAlive:       true,
	}
}

// FromCaptain folds the captain's troop bonus into its stats. Troops beyond
// the captain's capacity are trimmed first. Allied troops count linearly,
// hostile troops with diminishing returns.
func (a *Assembler) FromCaptain(c models.Captain, side models.Side) models.BattleUnit {
	level := max(c.Level, 1)
	rarity := c.Rarity
	if rarity == "" {
		rarity = models.RatingC
	}

	deployment, trimmed := troops.Clamp(c.Troops, troops.MaxTroops(level, rarity))
	if trimmed {
		requested := c.Troops.Normalized()
		a.logger.Warn("troops exceed captain capacity, trimmed",
			zap.String("captain", c.Name),
			zap.Int("requested", requested.Total()),
			zap.Int("kept", deployment.Total()),
		)
	}

	bonus := troops.Aggregate(deployment, troops.ModeFor(side), a.decay)
	health := max(c.Health, 0) + bonus.Health
	role := c.Role
	if role == "" {
		role = models.Physical
	}

	return models.BattleUnit{
		ID:            a.newID(),
		Name:          c.Name,
		Role:          role,
		Side:          side,
		Rarity:        rarity,
		Level:         level,
		Attributes:    c.Attributes.ClampNonNegative().Add(bonus.Attributes),
		MaxHealth:     health,
		CurrentHealth: health,
		IsAlive:       health > 0,
		Troops:        &deployment,
		TroopBonus:    bonus.Attributes,
	}
}

// FromFormation builds one unit per captain
func (a *Assembler) FromFormation(f models.Formation, side models.Side) []models.BattleUnit {
	units := make([]models.BattleUnit, 0, len(f.Captains))
	for _, c := range f.Captains {
		units = append(units, a.FromCaptain(c, side))
	}
	return units
}

// captainFromCatalog turns a scaled catalog unit into a captain leading d
func (a *Assembler) captainFromCatalog(def models.UnitDefinition, level int, d models.TroopDeployment, side models.Side) models.BattleUnit {
	level = max(level, 1)
	return a.FromCaptain(models.Captain{
		Name:       def.Name,
		Role:       def.Role,
		Rarity:     def.Rarity,
		Level:      level,
		Attributes: def.Attributes.ScaleRatio(levelDen+level-1, levelDen),
		Health:     ScaleToLevel(def.Health, level),
		Troops:     d,
	}, side)
}

// Build assembles a roster for side. Entries naming unknown units are logged
// and skipped; the rest of the roster is still built.
func (a *Assembler) Build(entries []models.RosterEntry, side models.Side) []models.BattleUnit {
	var units []models.BattleUnit
	for i, e := range entries {
		switch {
		case e.Unit != "":
			def, ok := a.catalog.Lookup(e.Unit)
			if !ok {
				a.logger.Warn("unit not in catalog, skipping",
					zap.String("side", side.String()),
					zap.Int("entry", i),
					zap.String("unit", e.Unit),
				)
				continue
			}
			level := e.Level
			if level <= 0 {
				level = def.Level
			}
			count := max(e.Count, 1)
			for n := 1; n <= count; n++ {
				var u models.BattleUnit
				if e.Troops != nil {
					u = a.captainFromCatalog(def, level, *e.Troops, side)
				} else {
					u = a.FromDefinition(def, level)
				}
				if count > 1 {
					u.Name = fmt.Sprintf("%s %d", def.Name, n)
				}
				units = append(units, u)
			}
		case e.Character != nil:
			units = append(units, a.FromCharacter(*e.Character))
		case e.Formation != nil:
			units = append(units, a.FromFormation(*e.Formation, side)...)
		default:
			a.logger.Warn("empty roster entry, skipping",
				zap.String("side", side.String()),
				zap.Int("entry", i),
			)
		}
	}

	for i := range units {
		units[i].Side = side
	}
	return units
}
