package troops

import "github.com/napolitain/battle-lnk/internal/models"

// TierProfile is the per-troop contribution of one tier
type TierProfile struct {
	Tier  models.TroopTier
	Level int // Tier level fed to the bonus formulas (capped at MaxTier)

	Attributes models.BattleAttributes
	// HealthWeight is both the health bonus base and the meat-shield weight
	HealthWeight int
}

// Profiles returns the tier table in deterministic order (lowest first)
func Profiles() []TierProfile {
	return []TierProfile{
		{
			Tier:         models.RankAndFile,
			Level:        1,
			Attributes:   models.BattleAttributes{Attack: 2, Defense: 2, Intelligence: 0, Speed: 1},
			HealthWeight: 2,
		},
		{
			Tier:         models.Elite,
			Level:        3,
			Attributes:   models.BattleAttributes{Attack: 5, Defense: 4, Intelligence: 1, Speed: 2},
			HealthWeight: 5,
		},
		{
			Tier:         models.CasterSupport,
			Level:        3,
			Attributes:   models.BattleAttributes{Attack: 1, Defense: 1, Intelligence: 5, Speed: 1},
			HealthWeight: 4,
		},
		{
			Tier:         models.Champion,
			Level:        5,
			Attributes:   models.BattleAttributes{Attack: 8, Defense: 6, Intelligence: 2, Speed: 3},
			HealthWeight: 8,
		},
	}
}

// Profile returns the profile of a tier
func Profile(t models.TroopTier) (TierProfile, bool) {
	for _, p := range Profiles() {
		if p.Tier == t {
			return p, true
		}
	}
	return TierProfile{}, false
}

// HealthWeight returns the meat-shield weight of one troop of a tier
func HealthWeight(t models.TroopTier) int {
	p, ok := Profile(t)
	if !ok {
		return 0
	}
	return p.HealthWeight
}

// Mode selects the bonus formula
type Mode int

const (
	ModeLinear Mode = iota
	ModeDecaying
)

// String returns a string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeDecaying:
		return "decaying"
	default:
		return "unknown"
	}
}

// ModeFor returns the mode used for a side: friendly forces are linear, hostile ones decay
func ModeFor(side models.Side) Mode {
	if side == models.Enemies {
		return ModeDecaying
	}
	return ModeLinear
}

// Bonus is what a deployment adds to its captain
type Bonus struct {
	Attributes models.BattleAttributes
	Health     int
}

// Aggregate sums the bonus of every populated tier of d
func Aggregate(d models.TroopDeployment, mode Mode, cfg DecayConfig) Bonus {
	norm := d.Normalized()
	calc := func(count, base, tier int) int {
		if mode == ModeDecaying {
			return Decaying(count, base, tier, cfg)
		}
		return Linear(count, base, tier)
	}

	var out Bonus
	for _, p := range Profiles() {
		count := norm.Get(p.Tier)
		if count <= 0 {
			continue
		}
		out.Attributes.Attack += calc(count, p.Attributes.Attack, p.Level)
		out.Attributes.Defense += calc(count, p.Attributes.Defense, p.Level)
		out.Attributes.Intelligence += calc(count, p.Attributes.Intelligence, p.Level)
		out.Attributes.Speed += calc(count, p.Attributes.Speed, p.Level)
		out.Health += calc(count, p.HealthWeight, p.Level)
	}
	return out
}

// Clamp trims d so its total fits within limit, scaling every tier by the same ratio
func Clamp(d models.TroopDeployment, limit int) (models.TroopDeployment, bool) {
	norm := d.Normalized()
	total := norm.Total()
	if total <= limit {
		return norm, false
	}
	if limit <= 0 {
		return models.TroopDeployment{}, true
	}
	ratio := float64(limit) / float64(total)
	var out models.TroopDeployment
	norm.Each(func(t models.TroopTier, count int) {
		out.Set(t, int(float64(count)*ratio))
	})
	return out, true
}
