// Package assembly turns catalog entries, characters and formations into
// battle-ready units.
package assembly

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/napolitain/battle-lnk/internal/models"
)

var (
	ErrDuplicateUnit = errors.New("duplicate unit name")
	ErrInvalidUnit   = errors.New("invalid unit definition")
)

// Catalog is an immutable, ordered set of unit definitions
type Catalog struct {
	defs   []models.UnitDefinition
	byName map[string]int
}

// NewCatalog validates defs and indexes them by (case-insensitive) name.
// The catalog keeps its own copy; later changes to defs are not seen.
func NewCatalog(defs []models.UnitDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:   make([]models.UnitDefinition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		key := catalogKey(def.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidUnit)
		}
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUnit, def.Name)
		}
		if def.Role != models.Physical && def.Role != models.Magical {
			return nil, fmt.Errorf("%w: %s has role %q", ErrInvalidUnit, def.Name, def.Role)
		}
		if def.Health < 0 || def.Attributes != def.Attributes.ClampNonNegative() {
			return nil, fmt.Errorf("%w: %s has negative stats", ErrInvalidUnit, def.Name)
		}
		if def.Level < 1 {
			def.Level = 1
		}
		c.byName[key] = len(c.defs)
		c.defs = append(c.defs, def)
	}
	return c, nil
}

// DefaultCatalog returns the catalog built from the built-in definitions
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(models.DefaultUnitDefinitions())
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of definitions
func (c *Catalog) Len() int { return len(c.defs) }

// Lookup finds a definition by name
func (c *Catalog) Lookup(name string) (models.UnitDefinition, bool) {
	i, ok := c.byName[catalogKey(name)]
	if !ok {
		return models.UnitDefinition{}, false
	}
	return c.defs[i], true
}

// All returns every definition in catalog order
func (c *Catalog) All() []models.UnitDefinition {
	out := make([]models.UnitDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Filter returns the definitions matching pred, in catalog order
func (c *Catalog) Filter(pred func(models.UnitDefinition) bool) []models.UnitDefinition {
	var out []models.UnitDefinition
	for _, def := range c.defs {
		if pred == nil || pred(def) {
			out = append(out, def)
		}
	}
	return out
}

// ByRarity returns the definitions with the given rating
func (c *Catalog) ByRarity(r models.Rating) []models.UnitDefinition {
	return c.Filter(func(d models.UnitDefinition) bool { return d.Rarity == r })
}

// ByRole returns the definitions with the given combat role
func (c *Catalog) ByRole(role models.CombatRole) []models.UnitDefinition {
	return c.Filter(func(d models.UnitDefinition) bool { return d.Role == role })
}

// ByLevelBand returns the definitions whose native level is within [minLevel, maxLevel]
func (c *Catalog) ByLevelBand(minLevel, maxLevel int) []models.UnitDefinition {
	return c.Filter(func(d models.UnitDefinition) bool {
		return d.Level >= minLevel && d.Level <= maxLevel
	})
}

// Sample picks up to n distinct definitions matching pred using rng.
// The picks are returned in catalog order so a fixed seed gives a fixed roster.
func (c *Catalog) Sample(rng *rand.Rand, n int, pred func(models.UnitDefinition) bool) []models.UnitDefinition {
	var candidates []int
	for i, def := range c.defs {
		if pred == nil || pred(def) {
			candidates = append(candidates, i)
		}
	}
	if n <= 0 || len(candidates) == 0 {
		return nil
	}
	if n < len(candidates) {
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		candidates = candidates[:n]
		sort.Ints(candidates)
	}

	out := make([]models.UnitDefinition, 0, len(candidates))
	for _, i := range candidates {
		out = append(out, c.defs[i])
	}
	return out
}
