// Package troops converts subordinate troop counts into attribute bonuses for
// the captain that leads them, and apportions casualties across tiers.
package troops

import (
	"errors"
	"fmt"
	"math"

	"github.com/napolitain/battle-lnk/internal/models"
)

// Defaults for the hostile (decaying) bonus
const (
	DefaultThreshold     = 500
	DefaultDecayRate     = 0.07
	DefaultMinEfficiency = 0.10

	// DecayStep is the number of troops above the threshold that share one efficiency level
	DecayStep = 100

	// MaxTier caps the tier level used by the bonus formulas
	MaxTier = 10

	// absorbs float error in the slope sum before flooring
	floorEpsilon = 1e-6
)

var ErrInvalidDecayConfig = errors.New("invalid decay config")

// DecayConfig tunes diminishing returns for hostile forces
type DecayConfig struct {
	Threshold     int
	DecayRate     float64
	MinEfficiency float64
}

// DefaultDecayConfig returns the reference tuning
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		Threshold:     DefaultThreshold,
		DecayRate:     DefaultDecayRate,
		MinEfficiency: DefaultMinEfficiency,
	}
}

// DecayConfigFrom applies the optional settings of a battle file on top of the defaults
func DecayConfigFrom(s *models.DecaySettings) DecayConfig {
	return DefaultDecayConfig().With(s)
}

// With returns c with every field set in s replaced
func (c DecayConfig) With(s *models.DecaySettings) DecayConfig {
	if s == nil {
		return c
	}
	if s.Threshold != nil {
		c.Threshold = *s.Threshold
	}
	if s.DecayRate != nil {
		c.DecayRate = *s.DecayRate
	}
	if s.MinEfficiency != nil {
		c.MinEfficiency = *s.MinEfficiency
	}
	return c
}

// Validate checks the ranges accepted by Decaying
func (c DecayConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("%w: threshold %d < 0", ErrInvalidDecayConfig, c.Threshold)
	}
	if c.DecayRate < 0 || c.DecayRate > 1 {
		return fmt.Errorf("%w: decay rate %.3f outside [0,1]", ErrInvalidDecayConfig, c.DecayRate)
	}
	if c.MinEfficiency < 0 || c.MinEfficiency > 1 {
		return fmt.Errorf("%w: min efficiency %.3f outside [0,1]", ErrInvalidDecayConfig, c.MinEfficiency)
	}
	return nil
}

// perUnit is the bonus one troop contributes at full efficiency
func perUnit(base, tier int) float64 {
	tier = min(max(tier, 0), MaxTier)
	return float64(base) * float64(tier) / MaxTier
}

// Linear returns the friendly-force bonus: floor(count * base * min(tier,10)/10)
func Linear(count, base, tier int) int {
	if count <= 0 || base <= 0 {
		return 0
	}
	tier = min(max(tier, 0), MaxTier)
	return count * base * tier / MaxTier
}

// Decaying returns the hostile-force bonus. Up to the threshold it equals Linear.
// Above it, the excess is cut into DecayStep-sized steps; step k (0-based)
// counts at efficiency max(minEfficiency, 1 - k*decayRate).
func Decaying(count, base, tier int, cfg DecayConfig) int {
	if count <= 0 || base <= 0 {
		return 0
	}
	if count <= cfg.Threshold {
		return Linear(count, base, tier)
	}

	excess := count - cfg.Threshold
	steps := (excess + DecayStep - 1) / DecayStep
	sloped := steps
	if n := stepsAboveFloor(cfg); n >= 0 {
		sloped = min(steps, n)
	}

	var weighted float64
	if sloped == steps {
		// the last step may be partial and still sits on the slope
		full := steps - 1
		weighted = slopeSum(full, cfg) + float64(excess-full*DecayStep)*efficiency(full, cfg)
	} else {
		weighted = slopeSum(sloped, cfg) + float64(excess-sloped*DecayStep)*cfg.MinEfficiency
	}

	unit := perUnit(base, tier)
	return int(math.Floor(float64(cfg.Threshold)*unit + weighted*unit + floorEpsilon))
}

func efficiency(step int, cfg DecayConfig) float64 {
	return math.Max(cfg.MinEfficiency, 1-float64(step)*cfg.DecayRate)
}

// slopeSum is the weight of n full steps above the floor: sum of DecayStep*(1 - k*rate) for k < n
func slopeSum(n int, cfg DecayConfig) float64 {
	if n <= 0 {
		return 0
	}
	return DecayStep * (float64(n) - cfg.DecayRate*float64(n)*float64(n-1)/2)
}

// stepsAboveFloor returns how many leading steps count above MinEfficiency,
// or -1 when every step does.
func stepsAboveFloor(cfg DecayConfig) int {
	if efficiency(0, cfg) <= cfg.MinEfficiency {
		return 0
	}
	if cfg.DecayRate <= 0 {
		return -1
	}
	n := max(int(math.Ceil((1-cfg.MinEfficiency)/cfg.DecayRate)), 1)
	for n > 1 && efficiency(n-1, cfg) <= cfg.MinEfficiency {
		n--
	}
	for efficiency(n, cfg) > cfg.MinEfficiency {
		n++
	}
	return n
}

// RatingMultiplier maps a rating to its troop capacity multiplier
func RatingMultiplier(r models.Rating) float64 {
	switch r {
	case models.RatingS:
		return 2.0
	case models.RatingA:
		return 1.5
	case models.RatingB:
		return 1.2
	case models.RatingC:
		return 1.0
	case models.RatingD:
		return 0.8
	}
	return 1.0
}

// BaseTroopCapacity is the troop allowance per captain level at rating C
const BaseTroopCapacity = 100

// MaxTroops returns how many subordinates a captain may lead
func MaxTroops(level int, r models.Rating) int {
	level = max(level, 1)
	return int(math.Floor(float64(BaseTroopCapacity*level) * RatingMultiplier(r)))
}
