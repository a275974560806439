package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyBattleFile = errors.New("battle file has no rosters")

// DecaySettings are the optional knobs of the hostile troop bonus.
// Nil fields fall back to the calculator defaults.
type DecaySettings struct {
	Threshold     *int     `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	DecayRate     *float64 `yaml:"decay_rate,omitempty" json:"decay_rate,omitempty"`
	MinEfficiency *float64 `yaml:"min_efficiency,omitempty" json:"min_efficiency,omitempty"`
}

// BattleConfig describes one battle: both rosters plus tuning
type BattleConfig struct {
	Name    string        `yaml:"name,omitempty" json:"name,omitempty"`
	Seed    *int64        `yaml:"seed,omitempty" json:"seed,omitempty"`
	Allies  []RosterEntry `yaml:"allies" json:"allies"`
	Enemies []RosterEntry `yaml:"enemies" json:"enemies"`
	// Focus names an enemy the allies should attack first while it lives
	Focus string         `yaml:"focus,omitempty" json:"focus,omitempty"`
	Decay *DecaySettings `yaml:"decay,omitempty" json:"decay,omitempty"`
	// CasualtySides lists the sides whose captains lose troops when damaged (default: allies)
	CasualtySides []Side `yaml:"casualty_sides,omitempty" json:"casualty_sides,omitempty"`
}

// LoadBattleConfig loads a battle file; .json files are parsed as JSON, anything else as YAML
func LoadBattleConfig(path string) (*BattleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseBattleConfigJSON(data)
	}
	return ParseBattleConfigYAML(data)
}

// ParseBattleConfigYAML decodes a YAML battle file
func ParseBattleConfigYAML(data []byte) (*BattleConfig, error) {
	config := &BattleConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("invalid battle yaml: %w", err)
	}
	return config, nil
}

// ParseBattleConfigJSON decodes a JSON battle file
func ParseBattleConfigJSON(data []byte) (*BattleConfig, error) {
	config := &BattleConfig{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("invalid battle json: %w", err)
	}
	return config, nil
}

// ValidateBattleConfig checks structural requirements. An empty side is allowed
// (the engine resolves it immediately) but a file with no units at all is not.
func ValidateBattleConfig(c *BattleConfig) error {
	if len(c.Allies) == 0 && len(c.Enemies) == 0 {
		return ErrEmptyBattleFile
	}
	for _, side := range c.CasualtySides {
		if side != Allies && side != Enemies {
			return fmt.Errorf("invalid casualty side: %q", side)
		}
	}
	check := func(side Side, entries []RosterEntry) error {
		for i, e := range entries {
			if e.Unit == "" && e.Character == nil && e.Formation == nil {
				return fmt.Errorf("%s[%d]: entry needs a unit, character or formation", side, i)
			}
			if e.Count < 0 {
				return fmt.Errorf("%s[%d]: negative count %d", side, i, e.Count)
			}
		}
		return nil
	}
	if err := check(Allies, c.Allies); err != nil {
		return err
	}
	return check(Enemies, c.Enemies)
}
