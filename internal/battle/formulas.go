package battle

import (
	"math"
	"math/rand"
	"time"

	"github.com/napolitain/battle-lnk/internal/models"
)

// Rand is the random source used for hit, critical and magic variance rolls
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded random source
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newTimeRand() *rand.Rand { return NewRand(time.Now().UnixNano()) }

// Formula constants
const (
	PhysicalBaseHit     = 0.90
	PhysicalHitPerSpeed = 0.01
	PhysicalMinHit      = 0.10
	PhysicalMaxHit      = 0.95
	PhysicalBaseCrit    = 0.05
	PhysicalCritPerInt  = 0.002

	MagicalBaseHit    = 0.85
	MagicalHitPerInt  = 0.005
	MagicalMinHit     = 0.15
	MagicalMaxHit     = 0.95
	MagicalBaseCrit   = 0.08
	MagicalCritPerInt = 0.003

	// Magic ignores this share of defense
	MagicalDefenseFactor = 0.5
	// Non-critical magic damage is scaled by a uniform roll in [min, max]
	MagicalMinVariance = 0.8
	MagicalMaxVariance = 1.2

	CriticalMultiplier = 2.0
	MinDamage          = 1
)

// Outcome is the result of one attack roll
type Outcome struct {
	Hit      bool
	Critical bool
	Damage   int
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func finalDamage(base int, mult float64) int {
	return max(MinDamage, int(math.Floor(float64(base)*mult)))
}

// PhysicalHitChance is 0.9 + 0.01 per point of speed advantage, clamped to [0.10, 0.95]
func PhysicalHitChance(attacker, defender models.BattleAttributes) float64 {
	return clamp(PhysicalBaseHit+PhysicalHitPerSpeed*float64(attacker.Speed-defender.Speed), PhysicalMinHit, PhysicalMaxHit)
}

// PhysicalCritChance is 0.05 + 0.002 per intelligence, clamped to [0, 1]
func PhysicalCritChance(attacker models.BattleAttributes) float64 {
	return clamp(PhysicalBaseCrit+PhysicalCritPerInt*float64(attacker.Intelligence), 0, 1)
}

// MagicalHitChance is 0.85 + 0.005 per intelligence, clamped to [0.15, 0.95]
func MagicalHitChance(attacker models.BattleAttributes) float64 {
	return clamp(MagicalBaseHit+MagicalHitPerInt*float64(attacker.Intelligence), MagicalMinHit, MagicalMaxHit)
}

// MagicalCritChance is 0.08 + 0.003 per intelligence, clamped to [0, 1]
func MagicalCritChance(attacker models.BattleAttributes) float64 {
	return clamp(MagicalBaseCrit+MagicalCritPerInt*float64(attacker.Intelligence), 0, 1)
}

// Physical resolves an attack-versus-defense strike. Rolls: hit, then critical.
func Physical(attacker, defender models.BattleAttributes, rng Rand) Outcome {
	if rng.Float64() >= PhysicalHitChance(attacker, defender) {
		return Outcome{}
	}
	crit := rng.Float64() < PhysicalCritChance(attacker)

	mult := 1.0
	if crit {
		mult = CriticalMultiplier
	}
	return Outcome{
		Hit:      true,
		Critical: crit,
		Damage:   finalDamage(attacker.Attack-defender.Defense, mult),
	}
}

// Magical resolves an intelligence-versus-half-defense spell.
// Rolls: hit, then critical, then variance when not critical.
func Magical(attacker, defender models.BattleAttributes, rng Rand) Outcome {
	if rng.Float64() >= MagicalHitChance(attacker) {
		return Outcome{}
	}
	crit := rng.Float64() < MagicalCritChance(attacker)

	effectiveDefense := int(math.Floor(float64(defender.Defense) * MagicalDefenseFactor))
	mult := CriticalMultiplier
	if !crit {
		mult = MagicalMinVariance + rng.Float64()*(MagicalMaxVariance-MagicalMinVariance)
	}
	return Outcome{
		Hit:      true,
		Critical: crit,
		Damage:   finalDamage(attacker.Intelligence-effectiveDefense, mult),
	}
}

// Resolve picks the formula for a combat role
func Resolve(role models.CombatRole, attacker, defender models.BattleAttributes, rng Rand) Outcome {
	if role == models.Magical {
		return Magical(attacker, defender, rng)
	}
	return Physical(attacker, defender, rng)
}
