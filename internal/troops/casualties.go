package troops

import (
	"math"

	"github.com/napolitain/battle-lnk/internal/models"
)

// RankAndFileShare is how much faster than the nominal ratio the lowest tier dies
const RankAndFileShare = 1.5

// HealthEquivalent is the deployment's total weight: sum of count * health weight
func HealthEquivalent(d models.TroopDeployment) int {
	norm := d.Normalized()
	total := 0
	norm.Each(func(t models.TroopTier, count int) {
		total += count * HealthWeight(t)
	})
	return total
}

// ApplyCasualties converts health lost by a captain into subordinate losses.
// Rank-and-file absorb losses first at RankAndFileShare times the nominal ratio;
// the other tiers only start dying once rank-and-file are exhausted, sharing the
// health left over uniformly. Returns the remaining deployment and the losses.
func ApplyCasualties(d models.TroopDeployment, healthLost int) (models.TroopDeployment, models.TroopDeployment) {
	remaining := d.Normalized()
	var losses models.TroopDeployment

	equivalent := HealthEquivalent(remaining)
	if equivalent <= 0 || healthLost <= 0 {
		return remaining, losses
	}
	ratio := clamp01(float64(healthLost) / float64(equivalent))

	rank := remaining.RankAndFile
	rankLoss := min(rank, int(math.Floor(float64(rank)*ratio*RankAndFileShare)))
	losses.RankAndFile = rankLoss
	remaining.Remove(models.RankAndFile, rankLoss)
	if remaining.RankAndFile > 0 {
		return remaining, losses
	}

	leftover := healthLost - rankLoss*HealthWeight(models.RankAndFile)
	if leftover <= 0 {
		return remaining, losses
	}
	othersEquivalent := HealthEquivalent(remaining)
	if othersEquivalent <= 0 {
		return remaining, losses
	}
	otherRatio := clamp01(float64(leftover) / float64(othersEquivalent))

	for _, t := range []models.TroopTier{models.Elite, models.CasterSupport, models.Champion} {
		loss := int(math.Floor(float64(remaining.Get(t)) * otherRatio))
		losses.Set(t, loss)
		remaining.Remove(t, loss)
	}
	return remaining, losses
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
