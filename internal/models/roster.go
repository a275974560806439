package models

// Character is a richer entity from the surrounding game that can fight
type Character struct {
	Name       string           `yaml:"name" json:"name"`
	Role       CombatRole       `yaml:"role" json:"role"`
	Level      int              `yaml:"level,omitempty" json:"level,omitempty"`
	Offspring  int              `yaml:"offspring,omitempty" json:"offspring,omitempty"`
	Attributes BattleAttributes `yaml:"attributes" json:"attributes"`
	Health     int              `yaml:"health,omitempty" json:"health,omitempty"`
}

// CombatLevel returns the explicit level, or one level per 10 offspring on top of level 1
func (c *Character) CombatLevel() int {
	if c.Level > 0 {
		return c.Level
	}
	return 1 + max(c.Offspring, 0)/10
}

// Captain leads a deployment of subordinate troops
type Captain struct {
	Name       string           `yaml:"name" json:"name"`
	Role       CombatRole       `yaml:"role" json:"role"`
	Rarity     Rating           `yaml:"rarity,omitempty" json:"rarity,omitempty"`
	Level      int              `yaml:"level" json:"level"`
	Attributes BattleAttributes `yaml:"attributes" json:"attributes"`
	Health     int              `yaml:"health" json:"health"`
	Troops     TroopDeployment  `yaml:"troops" json:"troops"`
}

// Formation is a group of captains fielded together
type Formation struct {
	Name     string    `yaml:"name" json:"name"`
	Captains []Captain `yaml:"captains" json:"captains"`
}

// RosterEntry is one line of a battle file roster. Exactly one source is expected;
// when several are set, Unit wins over Character, which wins over Formation.
type RosterEntry struct {
	Unit      string     `yaml:"unit,omitempty" json:"unit,omitempty"`
	Level     int        `yaml:"level,omitempty" json:"level,omitempty"`
	Count     int        `yaml:"count,omitempty" json:"count,omitempty"` // Copies of a catalog unit, default 1
	Character *Character `yaml:"character,omitempty" json:"character,omitempty"`
	Formation *Formation `yaml:"formation,omitempty" json:"formation,omitempty"`
	// Troops attaches a deployment to a catalog unit, making it a captain
	Troops *TroopDeployment `yaml:"troops,omitempty" json:"troops,omitempty"`
}
