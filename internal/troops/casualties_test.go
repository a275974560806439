package troops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/napolitain/battle-lnk/internal/models"
)

func TestHealthEquivalent(t *testing.T) {
	d := models.TroopDeployment{RankAndFile: 100, Elite: 10, CasterSupport: 5, Champion: 10}
	// 100*2 + 10*5 + 5*4 + 10*8
	assert.Equal(t, 350, HealthEquivalent(d))
	assert.Equal(t, 0, HealthEquivalent(models.TroopDeployment{}))
}

func TestApplyCasualtiesRankAndFileFirst(t *testing.T) {
	d := models.TroopDeployment{RankAndFile: 100, Champion: 10}
	half := HealthEquivalent(d) / 2

	remaining, losses := ApplyCasualties(d, half)

	// ratio 0.5, rank-and-file lose 1.5x that share
	assert.Equal(t, 75, losses.RankAndFile)
	assert.Equal(t, 25, remaining.RankAndFile)
	assert.Equal(t, 0, losses.Champion)
	assert.Equal(t, 10, remaining.Champion)
}

func TestApplyCasualtiesChampionsUntouchedUntilExhausted(t *testing.T) {
	d := models.TroopDeployment{RankAndFile: 100, Champion: 10}

	for !d.IsEmpty() {
		before := d
		var losses models.TroopDeployment
		d, losses = ApplyCasualties(d, 30)
		if losses.Champion > 0 && before.RankAndFile > 0 && losses.RankAndFile < before.RankAndFile {
			t.Fatalf("champions died while rank-and-file remained: before=%+v losses=%+v", before, losses)
		}
		if losses.Total() == 0 {
			break
		}
	}
}

func TestApplyCasualtiesSpillover(t *testing.T) {
	d := models.TroopDeployment{RankAndFile: 10, Elite: 10, Champion: 10}
	// equivalent 20 + 50 + 80 = 150; ratio 0.8 * 1.5 wipes rank-and-file
	remaining, losses := ApplyCasualties(d, 120)

	assert.Equal(t, 10, losses.RankAndFile)
	assert.Equal(t, 0, remaining.RankAndFile)
	// leftover 100 over 130 of elite+champion equivalent
	assert.Equal(t, 7, losses.Elite)
	assert.Equal(t, 7, losses.Champion)
	assert.Equal(t, 3, remaining.Elite)
	assert.Equal(t, 3, remaining.Champion)
}

func TestApplyCasualtiesWipe(t *testing.T) {
	d := models.TroopDeployment{RankAndFile: 10, Elite: 3, CasterSupport: 2, Champion: 1}

	remaining, losses := ApplyCasualties(d, HealthEquivalent(d)*3)

	assert.True(t, remaining.IsEmpty())
	assert.Equal(t, d.Total(), losses.Total())
}

func TestApplyCasualtiesNoDamage(t *testing.T) {
	d := models.TroopDeployment{RankAndFile: 10}

	remaining, losses := ApplyCasualties(d, 0)
	assert.Equal(t, d, remaining)
	assert.True(t, losses.IsEmpty())

	remaining, losses = ApplyCasualties(models.TroopDeployment{}, 50)
	assert.True(t, remaining.IsEmpty())
	assert.True(t, losses.IsEmpty())
}

func TestApplyCasualtiesHomogeneousForce(t *testing.T) {
	d := models.TroopDeployment{Type: models.Elite, Count: 20}

	remaining, losses := ApplyCasualties(d, 50)

	// no rank-and-file, so elites take the full 50/100 ratio
	assert.Equal(t, 10, losses.Elite)
	assert.Equal(t, 10, remaining.Elite)
	assert.Equal(t, 0, remaining.Count)
}
