package models

// UnitDefinition contains static catalog data for one unit
type UnitDefinition struct {
	Name        string           `yaml:"name" json:"name"`
	Role        CombatRole       `yaml:"role" json:"role"`
	Rarity      Rating           `yaml:"rarity" json:"rarity"`
	Level       int              `yaml:"level" json:"level"` // Native level, used for level-band filters
	Attributes  BattleAttributes `yaml:"attributes" json:"attributes"`
	Health      int              `yaml:"health" json:"health"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
}

// DefaultUnitDefinitions returns the built-in catalog, used when no data file is given
func DefaultUnitDefinitions() []UnitDefinition {
	return []UnitDefinition{
		{
			Name:       "Militia",
			Role:       Physical,
			Rarity:     RatingD,
			Level:      1,
			Attributes: BattleAttributes{Attack: 8, Defense: 4, Intelligence: 2, Speed: 8},
			Health:     30,
		},
		{
			Name:       "Spearman",
			Role:       Physical,
			Rarity:     RatingC,
			Level:      2,
			Attributes: BattleAttributes{Attack: 12, Defense: 10, Intelligence: 3, Speed: 9},
			Health:     45,
		},
		{
			Name:       "Archer",
			Role:       Physical,
			Rarity:     RatingC,
			Level:      2,
			Attributes: BattleAttributes{Attack: 15, Defense: 5, Intelligence: 6, Speed: 14},
			Health:     35,
		},
		{
			Name:       "Hedge Mage",
			Role:       Magical,
			Rarity:     RatingB,
			Level:      3,
			Attributes: BattleAttributes{Attack: 4, Defense: 5, Intelligence: 18, Speed: 11},
			Health:     32,
		},
		{
			Name:       "Knight",
			Role:       Physical,
			Rarity:     RatingB,
			Level:      4,
			Attributes: BattleAttributes{Attack: 20, Defense: 16, Intelligence: 6, Speed: 10},
			Health:     70,
		},
		{
			Name:       "Battle Priest",
			Role:       Magical,
			Rarity:     RatingA,
			Level:      5,
			Attributes: BattleAttributes{Attack: 8, Defense: 12, Intelligence: 24, Speed: 12},
			Health:     60,
		},
		{
			Name:       "Warlord",
			Role:       Physical,
			Rarity:     RatingA,
			Level:      6,
			Attributes: BattleAttributes{Attack: 28, Defense: 18, Intelligence: 10, Speed: 15},
			Health:     95,
		},
		{
			Name:       "Archmage",
			Role:       Magical,
			Rarity:     RatingS,
			Level:      8,
			Attributes: BattleAttributes{Attack: 6, Defense: 14, Intelligence: 38, Speed: 16},
			Health:     80,
		},
	}
}
