package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/battle-lnk/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	allyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	enemyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	deadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const healthBarWidth = 20

// replayModel steps through the recorded turns of a finished battle
type replayModel struct {
	result models.BattleResult
	turn   int
}

func newReplayModel(result models.BattleResult) replayModel {
	return replayModel{result: result}
}

func (m replayModel) Init() tea.Cmd { return nil }

func (m replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "space", "right", "l", "n":
		if m.turn < len(m.result.Turns)-1 {
			m.turn++
		}
	case "left", "h", "p":
		if m.turn > 0 {
			m.turn--
		}
	case "home", "g":
		m.turn = 0
	case "end", "G":
		m.turn = max(len(m.result.Turns)-1, 0)
	}
	return m, nil
}

func healthBar(u models.BattleUnit) string {
	filled := 0
	if u.MaxHealth > 0 {
		filled = u.CurrentHealth * healthBarWidth / u.MaxHealth
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", healthBarWidth-filled) + "]"
}

func renderSide(title string, units []models.BattleUnit, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	for _, u := range units {
		line := fmt.Sprintf("%-16s %s %4d/%-4d", u.Name, healthBar(u), u.CurrentHealth, u.MaxHealth)
		if u.Troops != nil {
			line += fmt.Sprintf("  troops %d", u.Troops.Total())
		}
		if !u.IsAlive {
			b.WriteString(deadStyle.Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m replayModel) View() string {
	if len(m.result.Turns) == 0 {
		return "No turns were played.\n" + helpStyle.Render("q quit") + "\n"
	}
	turn := m.result.Turns[m.turn]

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Turn %d of %d", turn.Number, len(m.result.Turns))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderSide("Allies", turn.After.Allies, allyStyle),
		" ",
		renderSide("Enemies", turn.After.Enemies, enemyStyle),
	))
	b.WriteString("\n\n")
	for _, a := range turn.Actions {
		style := allyStyle
		if a.ActorSide == models.Enemies {
			style = enemyStyle
		}
		b.WriteString(style.Render("  " + a.Description))
		b.WriteString("\n")
	}

	if m.turn == len(m.result.Turns)-1 {
		b.WriteString("\n")
		switch m.result.Winner {
		case models.Allies:
			b.WriteString(allyStyle.Bold(true).Render("Victory"))
		case models.Enemies:
			b.WriteString(enemyStyle.Bold(true).Render("Defeat"))
		default:
			b.WriteString(headerStyle.Render("Draw"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space/→ next • ← previous • q quit"))
	b.WriteString("\n")
	return b.String()
}

func runReplay(result models.BattleResult) error {
	_, err := tea.NewProgram(newReplayModel(result)).Run()
	return err
}
