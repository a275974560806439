package battle

import "github.com/napolitain/battle-lnk/internal/models"

// Result summarizes the battle so far. It is final once IsFinished is true.
func (e *Engine) Result() models.BattleResult {
	turns := e.Turns()
	return models.BattleResult{
		ID:         e.id,
		Victory:    e.state.IsFinished && e.state.Winner == models.Allies,
		Winner:     e.state.Winner,
		TotalTurns: len(turns),
		Turns:      turns,
		FinalState: e.State(),
		Statistics: Statistics(turns),
	}
}

// Statistics aggregates a turn log. Damage dealt counts allied actions,
// damage received counts enemy actions.
func Statistics(turns []models.BattleTurn) models.BattleStatistics {
	stats := models.BattleStatistics{DamageByUnit: make(map[string]int)}
	for _, turn := range turns {
		for _, a := range turn.Actions {
			stats.Actions++
			if !a.Hit {
				stats.Misses++
				continue
			}
			stats.Hits++
			if a.Critical {
				stats.Criticals++
			}
			stats.TotalDamage += a.Damage
			stats.DamageByUnit[a.ActorID] += a.Damage
			switch a.ActorSide {
			case models.Allies:
				stats.TotalDamageDealt += a.Damage
			case models.Enemies:
				stats.TotalDamageReceived += a.Damage
			}
		}
	}
	return stats
}
