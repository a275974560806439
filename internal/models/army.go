package models

// TroopDeployment holds subordinate counts per tier with strict typing (no maps).
// Type/Count describe a homogeneous force (typically hostile) and are folded
// into the matching tier by Normalized.
type TroopDeployment struct {
	RankAndFile   int `yaml:"rank_and_file,omitempty" json:"rank_and_file,omitempty"`
	Elite         int `yaml:"elite,omitempty" json:"elite,omitempty"`
	CasterSupport int `yaml:"caster_support,omitempty" json:"caster_support,omitempty"`
	Champion      int `yaml:"champion,omitempty" json:"champion,omitempty"`

	Type  TroopTier `yaml:"type,omitempty" json:"type,omitempty"`
	Count int       `yaml:"count,omitempty" json:"count,omitempty"`
}

// Get returns count for a tier
func (d *TroopDeployment) Get(t TroopTier) int {
	switch t {
	case RankAndFile:
		return d.RankAndFile
	case Elite:
		return d.Elite
	case CasterSupport:
		return d.CasterSupport
	case Champion:
		return d.Champion
	}
	return 0
}

// Set sets count for a tier (negative counts are stored as 0)
func (d *TroopDeployment) Set(t TroopTier, count int) {
	if count < 0 {
		count = 0
	}
	switch t {
	case RankAndFile:
		d.RankAndFile = count
	case Elite:
		d.Elite = count
	case CasterSupport:
		d.CasterSupport = count
	case Champion:
		d.Champion = count
	}
}

// Add adds troops of a tier
func (d *TroopDeployment) Add(t TroopTier, count int) {
	d.Set(t, d.Get(t)+count)
}

// Remove removes troops of a tier (floors at 0)
func (d *TroopDeployment) Remove(t TroopTier, count int) {
	d.Set(t, d.Get(t)-count)
}

// Each iterates over all tiers in deterministic order
func (d *TroopDeployment) Each(fn func(TroopTier, int)) {
	fn(RankAndFile, d.RankAndFile)
	fn(Elite, d.Elite)
	fn(CasterSupport, d.CasterSupport)
	fn(Champion, d.Champion)
}

// Total returns the number of subordinates across all tiers
func (d *TroopDeployment) Total() int {
	return d.RankAndFile + d.Elite + d.CasterSupport + d.Champion
}

// Normalized returns a copy with the homogeneous Type/Count pair merged into its tier
func (d *TroopDeployment) Normalized() TroopDeployment {
	out := d.Clone()
	if out.Type != "" && out.Count > 0 {
		out.Add(out.Type, out.Count)
	}
	out.Type = ""
	out.Count = 0
	return out
}

// Clone returns a copy of the deployment
func (d *TroopDeployment) Clone() TroopDeployment {
	return TroopDeployment{
		RankAndFile:   d.RankAndFile,
		Elite:         d.Elite,
		CasterSupport: d.CasterSupport,
		Champion:      d.Champion,
		Type:          d.Type,
		Count:         d.Count,
	}
}

// IsEmpty returns true if no subordinates remain
func (d *TroopDeployment) IsEmpty() bool {
	return d.Total() == 0 && d.Count == 0
}
