package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/napolitain/battle-lnk/internal/battle"
	"github.com/napolitain/battle-lnk/internal/models"
)

func replayResult() models.BattleResult {
	ally := models.BattleUnit{ID: "a", Name: "Swordsman", Role: models.Physical, MaxHealth: 30,
		Attributes: models.BattleAttributes{Attack: 20, Defense: 5, Intelligence: 5, Speed: 15}}
	enemy := models.BattleUnit{ID: "e", Name: "Shieldbearer", Role: models.Physical, MaxHealth: 30,
		Attributes: models.BattleAttributes{Attack: 5, Defense: 20, Intelligence: 5, Speed: 5}}
	return battle.New([]models.BattleUnit{ally}, []models.BattleUnit{enemy}, battle.WithSeed(1)).ExecuteBattle()
}

func press(m tea.Model, key tea.KeyMsg) tea.Model {
	next, _ := m.Update(key)
	return next
}

func TestReplayNavigation(t *testing.T) {
	result := replayResult()
	if len(result.Turns) < 2 {
		t.Fatalf("expected several turns, got %d", len(result.Turns))
	}

	var m tea.Model = newReplayModel(result)
	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}

	m = press(m, left)
	if got := m.(replayModel).turn; got != 0 {
		t.Errorf("left on first turn moved to %d", got)
	}

	m = press(m, right)
	m = press(m, right)
	if got := m.(replayModel).turn; got != 2 {
		t.Errorf("expected turn index 2, got %d", got)
	}

	m = press(m, left)
	if got := m.(replayModel).turn; got != 1 {
		t.Errorf("expected turn index 1, got %d", got)
	}

	for i, n := 0, len(result.Turns)+5; i < n; i++ {
		m = press(m, right)
	}
	if got := m.(replayModel).turn; got != len(result.Turns)-1 {
		t.Errorf("replay ran past the last turn: %d", got)
	}
	if !strings.Contains(m.View(), "Victory") && !strings.Contains(m.View(), "Defeat") {
		t.Error("last turn should show the outcome")
	}
}

func TestReplayQuit(t *testing.T) {
	m := newReplayModel(replayResult())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit message")
	}
}

func TestReplayView(t *testing.T) {
	view := newReplayModel(replayResult()).View()
	for _, want := range []string{"Turn 1", "Swordsman", "Shieldbearer"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := newReplayModel(models.BattleResult{}).View()
	if !strings.Contains(empty, "No turns") {
		t.Errorf("unexpected empty view %q", empty)
	}
}
