package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRole   = errors.New("unknown combat role")
	ErrUnknownTier   = errors.New("unknown troop tier")
	ErrUnknownRating = errors.New("unknown rating")
)

// CombatRole selects which damage formula a unit uses
type CombatRole string

const (
	Physical CombatRole = "physical"
	Magical  CombatRole = "magical"
)

// AllCombatRoles returns all combat roles
func AllCombatRoles() []CombatRole {
	return []CombatRole{Physical, Magical}
}

// ParseCombatRole parses a role name (case-insensitive)
func ParseCombatRole(s string) (CombatRole, error) {
	switch CombatRole(strings.ToLower(strings.TrimSpace(s))) {
	case Physical:
		return Physical, nil
	case Magical:
		return Magical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r CombatRole) String() string { return string(r) }

// UnmarshalText rejects roles outside the closed set
func (r *CombatRole) UnmarshalText(text []byte) error {
	parsed, err := ParseCombatRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// TroopTier represents the subordinate unit categories a captain can lead
type TroopTier string

const (
	RankAndFile   TroopTier = "rank_and_file"
	Elite         TroopTier = "elite"
	CasterSupport TroopTier = "caster_support"
	Champion      TroopTier = "champion"
)

// AllTroopTiers returns all tiers in deterministic order (lowest first)
func AllTroopTiers() []TroopTier {
	return []TroopTier{RankAndFile, Elite, CasterSupport, Champion}
}

// ParseTroopTier parses a tier name. Dashes and spaces are accepted as separators.
func ParseTroopTier(s string) (TroopTier, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, t := range AllTroopTiers() {
		if TroopTier(norm) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

func (t TroopTier) String() string { return string(t) }

// UnmarshalText rejects tiers outside the closed set
func (t *TroopTier) UnmarshalText(text []byte) error {
	parsed, err := ParseTroopTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Rating is the qualitative S-D grade of a catalog unit
type Rating string

const (
	RatingS Rating = "S"
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
)

// AllRatings returns ratings from best to worst
func AllRatings() []Rating {
	return []Rating{RatingS, RatingA, RatingB, RatingC, RatingD}
}

// ParseRating parses a rating letter
func ParseRating(s string) (Rating, error) {
	up := Rating(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range AllRatings() {
		if up == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRating, s)
}

func (r Rating) String() string { return string(r) }

// UnmarshalText rejects ratings outside the closed set
func (r *Rating) UnmarshalText(text []byte) error {
	parsed, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Side identifies one of the two rosters in a battle
type Side string

const (
	SideNone Side = ""
	Allies   Side = "allies"
	Enemies  Side = "enemies"
)

// Opponent returns the opposing side
func (s Side) Opponent() Side {
	switch s {
	case Allies:
		return Enemies
	case Enemies:
		return Allies
	}
	return SideNone
}

func (s Side) String() string {
	if s == SideNone {
		return "none"
	}
	return string(s)
}

// ActionType is the kind of action a unit takes
type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionMagic  ActionType = "magic"
	ActionDefend ActionType = "defend"
	ActionSkill  ActionType = "skill"
)

// ActionTypeFor maps a combat role to the action it performs
func ActionTypeFor(role CombatRole) ActionType {
	if role == Magical {
		return ActionMagic
	}
	return ActionAttack
}
