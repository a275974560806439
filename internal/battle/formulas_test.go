package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/napolitain/battle-lnk/internal/models"
)

// seqRand replays a fixed sequence of draws and counts them
type seqRand struct {
	vals []float64
	n    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.n%len(s.vals)]
	s.n++
	return v
}

// fixedRand always returns the same draw
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func attrs(atk, def, intel, spd int) models.BattleAttributes {
	return models.BattleAttributes{Attack: atk, Defense: def, Intelligence: intel, Speed: spd}
}

func TestPhysicalHitChanceClamps(t *testing.T) {
	tests := []struct {
		name     string
		atkSpeed int
		defSpeed int
		want     float64
	}{
		{"even", 10, 10, 0.90},
		{"slower", 10, 30, 0.70},
		{"capped", 30, 10, 0.95},
		{"floored", 0, 200, 0.10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhysicalHitChance(attrs(0, 0, 0, tt.atkSpeed), attrs(0, 0, 0, tt.defSpeed))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMagicalChances(t *testing.T) {
	assert.InDelta(t, 0.85, MagicalHitChance(attrs(0, 0, 0, 0)), 1e-9)
	assert.InDelta(t, 0.90, MagicalHitChance(attrs(0, 0, 10, 0)), 1e-9)
	assert.InDelta(t, 0.95, MagicalHitChance(attrs(0, 0, 100, 0)), 1e-9)

	assert.InDelta(t, 0.11, MagicalCritChance(attrs(0, 0, 10, 0)), 1e-9)
	assert.InDelta(t, 1.0, MagicalCritChance(attrs(0, 0, 1000, 0)), 1e-9)
	assert.InDelta(t, 1.0, PhysicalCritChance(attrs(0, 0, 1000, 0)), 1e-9)
	assert.InDelta(t, 0.07, PhysicalCritChance(attrs(0, 0, 10, 0)), 1e-9)
}

func TestPhysical(t *testing.T) {
	att := attrs(20, 5, 5, 15)
	def := attrs(5, 8, 5, 5)

	miss := &seqRand{vals: []float64{0.96}}
	out := Physical(att, def, miss)
	assert.Equal(t, Outcome{}, out)
	assert.Equal(t, 1, miss.n, "a miss draws once")

	normal := &seqRand{vals: []float64{0.5, 0.9}}
	out = Physical(att, def, normal)
	assert.Equal(t, Outcome{Hit: true, Damage: 12}, out)
	assert.Equal(t, 2, normal.n)

	crit := &seqRand{vals: []float64{0, 0}}
	out = Physical(att, def, crit)
	assert.Equal(t, Outcome{Hit: true, Critical: true, Damage: 24}, out)
}

func TestPhysicalDamageFloor(t *testing.T) {
	out := Physical(attrs(3, 0, 0, 10), attrs(0, 50, 0, 10), &seqRand{vals: []float64{0, 0.99}})
	assert.True(t, out.Hit)
	assert.Equal(t, MinDamage, out.Damage)

	out = Physical(attrs(3, 0, 0, 10), attrs(0, 50, 0, 10), fixedRand(0))
	assert.True(t, out.Critical)
	assert.Equal(t, MinDamage, out.Damage)
}

func TestMagical(t *testing.T) {
	att := attrs(0, 0, 20, 0)
	def := attrs(0, 9, 0, 0)

	// effective defense floor(9/2) = 4, base 16
	low := &seqRand{vals: []float64{0, 0.99, 0}}
	assert.Equal(t, Outcome{Hit: true, Damage: 12}, Magical(att, def, low))
	assert.Equal(t, 3, low.n, "non-critical magic draws a variance roll")

	high := &seqRand{vals: []float64{0, 0.99, 0.999999}}
	assert.Equal(t, Outcome{Hit: true, Damage: 19}, Magical(att, def, high))

	crit := &seqRand{vals: []float64{0, 0}}
	assert.Equal(t, Outcome{Hit: true, Critical: true, Damage: 32}, Magical(att, def, crit))
	assert.Equal(t, 2, crit.n)

	assert.Equal(t, Outcome{}, Magical(att, def, fixedRand(0.97)))
}

func TestMagicalDamageFloor(t *testing.T) {
	out := Magical(attrs(0, 0, 1, 0), attrs(0, 100, 0, 0), &seqRand{vals: []float64{0, 0.99, 0}})
	assert.Equal(t, MinDamage, out.Damage)
}

func TestResolvePicksFormulaByRole(t *testing.T) {
	att := attrs(10, 0, 30, 0)
	def := attrs(0, 0, 0, 0)

	assert.Equal(t, 10, Resolve(models.Physical, att, def, &seqRand{vals: []float64{0, 0.99}}).Damage)
	assert.Equal(t, 60, Resolve(models.Magical, att, def, fixedRand(0)).Damage)
}

func TestNewRandIsSeeded(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
