package models

// BattleAttributes are the four immutable combat stats of a unit
type BattleAttributes struct {
	Attack       int `yaml:"attack" json:"attack"`
	Defense      int `yaml:"defense" json:"defense"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
	Speed        int `yaml:"speed" json:"speed"`
}

// Add returns the component-wise sum
func (a BattleAttributes) Add(b BattleAttributes) BattleAttributes {
	return BattleAttributes{
		Attack:       a.Attack + b.Attack,
		Defense:      a.Defense + b.Defense,
		Intelligence: a.Intelligence + b.Intelligence,
		Speed:        a.Speed + b.Speed,
	}
}

// ScaleRatio multiplies every attribute by num/den, flooring the result
func (a BattleAttributes) ScaleRatio(num, den int) BattleAttributes {
	return BattleAttributes{
		Attack:       a.Attack * num / den,
		Defense:      a.Defense * num / den,
		Intelligence: a.Intelligence * num / den,
		Speed:        a.Speed * num / den,
	}
}

// ClampNonNegative replaces negative attributes with 0
func (a BattleAttributes) ClampNonNegative() BattleAttributes {
	return BattleAttributes{
		Attack:       max(a.Attack, 0),
		Defense:      max(a.Defense, 0),
		Intelligence: max(a.Intelligence, 0),
		Speed:        max(a.Speed, 0),
	}
}

// BattleUnit is the atomic combatant
type BattleUnit struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Role   CombatRole `json:"role"`
	Side   Side       `json:"side"`
	Rarity Rating     `json:"rarity,omitempty"`
	Level  int        `json:"level"`

	// Attributes already include any troop bonus folded in at assembly time
	Attributes    BattleAttributes `json:"attributes"`
	MaxHealth     int              `json:"max_health"`
	CurrentHealth int              `json:"current_health"`
	IsAlive       bool             `json:"is_alive"`

	// Troops is nil for units that lead no subordinates
	Troops *TroopDeployment `json:"troops,omitempty"`
	// TroopBonus is what the current troops are worth; display only
	TroopBonus BattleAttributes `json:"troop_bonus"`
}

// IsCaptain reports whether the unit leads subordinates
func (u *BattleUnit) IsCaptain() bool {
	return u.Troops != nil
}

// HealthPercent returns current health as a fraction of max
func (u *BattleUnit) HealthPercent() float64 {
	if u.MaxHealth <= 0 {
		return 0
	}
	return float64(u.CurrentHealth) / float64(u.MaxHealth)
}

// Clone returns a deep copy of the unit
func (u *BattleUnit) Clone() BattleUnit {
	out := *u
	if u.Troops != nil {
		troops := u.Troops.Clone()
		out.Troops = &troops
	}
	return out
}

// BattleState is the full mutable state of one battle
type BattleState struct {
	Allies      []BattleUnit `json:"allies"`
	Enemies     []BattleUnit `json:"enemies"`
	CurrentTurn int          `json:"current_turn"`
	IsFinished  bool         `json:"is_finished"`
	Winner      Side         `json:"winner,omitempty"`
}

// Roster returns the units of a side
func (s *BattleState) Roster(side Side) []BattleUnit {
	if side == Enemies {
		return s.Enemies
	}
	return s.Allies
}

// Living returns the number of living units on a side
func (s *BattleState) Living(side Side) int {
	n := 0
	for i := range s.Roster(side) {
		if s.Roster(side)[i].IsAlive {
			n++
		}
	}
	return n
}

// Clone returns a structural snapshot that shares nothing with s
func (s *BattleState) Clone() BattleState {
	out := BattleState{
		Allies:      make([]BattleUnit, len(s.Allies)),
		Enemies:     make([]BattleUnit, len(s.Enemies)),
		CurrentTurn: s.CurrentTurn,
		IsFinished:  s.IsFinished,
		Winner:      s.Winner,
	}
	for i := range s.Allies {
		out.Allies[i] = s.Allies[i].Clone()
	}
	for i := range s.Enemies {
		out.Enemies[i] = s.Enemies[i].Clone()
	}
	return out
}

// BattleAction is one resolved attack
type BattleAction struct {
	Turn        int        `json:"turn"`
	Type        ActionType `json:"type"`
	ActorID     string     `json:"actor_id"`
	ActorName   string     `json:"actor_name"`
	ActorSide   Side       `json:"actor_side"`
	TargetID    string     `json:"target_id,omitempty"`
	TargetName  string     `json:"target_name,omitempty"`
	Damage      int        `json:"damage"`
	Hit         bool       `json:"hit"`
	Critical    bool       `json:"critical"`
	TargetDied  bool       `json:"target_died,omitempty"`
	Description string     `json:"description"`
}

// BattleTurn is one pass over the action queue with snapshots around it
type BattleTurn struct {
	Number  int            `json:"number"`
	Actions []BattleAction `json:"actions"`
	Before  BattleState    `json:"before"`
	After   BattleState    `json:"after"`
}

// BattleStatistics are aggregates over the full turn log
type BattleStatistics struct {
	TotalDamage         int            `json:"total_damage"`
	TotalDamageDealt    int            `json:"total_damage_dealt"`
	TotalDamageReceived int            `json:"total_damage_received"`
	Actions             int            `json:"actions"`
	Hits                int            `json:"hits"`
	Criticals           int            `json:"criticals"`
	Misses              int            `json:"misses"`
	DamageByUnit        map[string]int `json:"damage_by_unit"`
}

// BattleResult is the terminal artifact of a battle
type BattleResult struct {
	ID         string           `json:"id"`
	Victory    bool             `json:"victory"`
	Winner     Side             `json:"winner,omitempty"`
	TotalTurns int              `json:"total_turns"`
	Turns      []BattleTurn     `json:"turns"`
	FinalState BattleState      `json:"final_state"`
	Statistics BattleStatistics `json:"statistics"`
}
