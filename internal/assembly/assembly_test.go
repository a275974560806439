package assembly

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/napolitain/battle-lnk/internal/models"
	"github.com/napolitain/battle-lnk/internal/troops"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("u%d", n)
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]models.UnitDefinition{
		{Name: "Grunt", Role: models.Physical, Rarity: models.RatingD, Level: 1,
			Attributes: models.BattleAttributes{Attack: 10, Defense: 5, Intelligence: 2, Speed: 7}, Health: 30},
		{Name: "Seer", Role: models.Magical, Rarity: models.RatingB, Level: 3,
			Attributes: models.BattleAttributes{Attack: 3, Defense: 4, Intelligence: 20, Speed: 9}, Health: 25},
		{Name: "Paladin", Role: models.Physical, Rarity: models.RatingA, Level: 5,
			Attributes: models.BattleAttributes{Attack: 22, Defense: 18, Intelligence: 8, Speed: 10}, Health: 80},
		{Name: "Lich", Role: models.Magical, Rarity: models.RatingS, Level: 9,
			Attributes: models.BattleAttributes{Attack: 5, Defense: 12, Intelligence: 40, Speed: 14}, Health: 90},
	})
	require.NoError(t, err)
	return c
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]models.UnitDefinition{
		{Name: "Grunt", Role: models.Physical},
		{Name: "grunt ", Role: models.Physical},
	})
	assert.True(t, errors.Is(err, ErrDuplicateUnit))
}

func TestNewCatalogRejectsInvalid(t *testing.T) {
	_, err := NewCatalog([]models.UnitDefinition{{Name: "", Role: models.Physical}})
	assert.True(t, errors.Is(err, ErrInvalidUnit))

	_, err = NewCatalog([]models.UnitDefinition{{Name: "Ghost", Role: "ranged"}})
	assert.True(t, errors.Is(err, ErrInvalidUnit))

	_, err = NewCatalog([]models.UnitDefinition{{Name: "Cursed", Role: models.Physical,
		Attributes: models.BattleAttributes{Attack: -1}}})
	assert.True(t, errors.Is(err, ErrInvalidUnit))
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, len(models.DefaultUnitDefinitions()), c.Len())
	_, ok := c.Lookup("knight")
	assert.True(t, ok)
}

func TestCatalogFilters(t *testing.T) {
	c := testCatalog(t)

	names := func(defs []models.UnitDefinition) []string {
		var out []string
		for _, d := range defs {
			out = append(out, d.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Seer", "Lich"}, names(c.ByRole(models.Magical)))
	assert.Equal(t, []string{"Paladin"}, names(c.ByRarity(models.RatingA)))
	assert.Equal(t, []string{"Seer", "Paladin"}, names(c.ByLevelBand(2, 6)))
	assert.Empty(t, c.ByLevelBand(20, 30))
}

func TestCatalogSampleDeterministicAndOrdered(t *testing.T) {
	c := testCatalog(t)

	first := c.Sample(rand.New(rand.NewSource(7)), 2, nil)
	second := c.Sample(rand.New(rand.NewSource(7)), 2, nil)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)

	// Picks keep catalog order
	index := map[string]int{"Grunt": 0, "Seer": 1, "Paladin": 2, "Lich": 3}
	assert.Less(t, index[first[0].Name], index[first[1].Name])

	all := c.Sample(rand.New(rand.NewSource(1)), 10, nil)
	assert.Equal(t, c.All(), all)

	assert.Nil(t, c.Sample(rand.New(rand.NewSource(1)), 0, nil))
}

func TestLevelMultiplier(t *testing.T) {
	assert.InDelta(t, 1.0, LevelMultiplier(1), 1e-9)
	assert.InDelta(t, 1.2, LevelMultiplier(2), 1e-9)
	assert.InDelta(t, 2.8, LevelMultiplier(10), 1e-9)
	assert.InDelta(t, 1.0, LevelMultiplier(0), 1e-9)
}

func TestFromCatalogScalesByLevel(t *testing.T) {
	a := New(testCatalog(t), WithIDGenerator(sequentialIDs()))

	u, ok := a.FromCatalog("grunt", 2)
	require.True(t, ok)

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Grunt", u.Name)
	assert.Equal(t, 2, u.Level)
	assert.Equal(t, models.BattleAttributes{Attack: 12, Defense: 6, Intelligence: 2, Speed: 8}, u.Attributes)
	assert.Equal(t, 36, u.MaxHealth)
	assert.Equal(t, u.MaxHealth, u.CurrentHealth)
	assert.True(t, u.IsAlive)
	assert.Nil(t, u.Troops)
}

func TestFromCatalogDefaultsToNativeLevel(t *testing.T) {
	a := New(testCatalog(t))

	u, ok := a.FromCatalog("Paladin", 0)
	require.True(t, ok)
	assert.Equal(t, 5, u.Level)
	// multiplier 1.8
	assert.Equal(t, 144, u.MaxHealth)
}

func TestFromCatalogMiss(t *testing.T) {
	a := New(testCatalog(t))
	_, ok := a.FromCatalog("Dragon", 3)
	assert.False(t, ok)
}

func TestFromCharacter(t *testing.T) {
	a := New(testCatalog(t))

	explicit := a.FromCharacter(models.Character{
		Name: "Aria", Role: models.Magical, Level: 4, Health: 55,
		Attributes: models.BattleAttributes{Attack: 3, Defense: 6, Intelligence: 17, Speed: 12},
	})
	assert.Equal(t, 4, explicit.Level)
	assert.Equal(t, 55, explicit.MaxHealth)
	assert.Equal(t, models.Magical, explicit.Role)

	derived := a.FromCharacter(models.Character{Name: "Bram", Offspring: 25})
	assert.Equal(t, 3, derived.Level)
	assert.Equal(t, 30, derived.MaxHealth)
	assert.Equal(t, derived.MaxHealth, derived.CurrentHealth)
	assert.Equal(t, models.Physical, derived.Role)
}

func TestFromCaptainFoldsTroopBonus(t *testing.T) {
	a := New(testCatalog(t))

	captain := models.Captain{
		Name:       "Sergeant",
		Role:       models.Physical,
		Level:      2,
		Attributes: models.BattleAttributes{Attack: 10, Defense: 10, Intelligence: 5, Speed: 10},
		Health:     40,
		Troops:     models.TroopDeployment{RankAndFile: 100},
	}

	u := a.FromCaptain(captain, models.Allies)

	assert.Equal(t, models.BattleAttributes{Attack: 30, Defense: 30, Intelligence: 5, Speed: 20}, u.Attributes)
	assert.Equal(t, 60, u.MaxHealth)
	assert.Equal(t, 60, u.CurrentHealth)
	require.NotNil(t, u.Troops)
	assert.Equal(t, 100, u.Troops.RankAndFile)
	assert.Equal(t, models.Allies, u.Side)
}

func TestFromCaptainHostileDecays(t *testing.T) {
	a := New(testCatalog(t))

	captain := models.Captain{
		Name:   "Warband Chief",
		Rarity: models.RatingS,
		Level:  10,
		Troops: models.TroopDeployment{Type: models.RankAndFile, Count: 1500},
	}

	friendly := a.FromCaptain(captain, models.Allies)
	hostile := a.FromCaptain(captain, models.Enemies)

	assert.Less(t, hostile.Attributes.Attack, friendly.Attributes.Attack)
	assert.Less(t, hostile.MaxHealth, friendly.MaxHealth)
	assert.Equal(t, 1500, hostile.Troops.RankAndFile)
}

func TestFromCaptainTrimsToCapacity(t *testing.T) {
	a := New(testCatalog(t))

	u := a.FromCaptain(models.Captain{
		Name:   "Corporal",
		Rarity: models.RatingC,
		Level:  1,
		Troops: models.TroopDeployment{RankAndFile: 400},
	}, models.Allies)

	assert.Equal(t, troops.MaxTroops(1, models.RatingC), u.Troops.Total())
}

func TestFromCaptainLogsTrimmedHomogeneousForce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := New(testCatalog(t), WithLogger(zap.New(core)))

	u := a.FromCaptain(models.Captain{
		Name:   "Warlord",
		Rarity: models.RatingD,
		Level:  2,
		Troops: models.TroopDeployment{Elite: 20, Type: models.RankAndFile, Count: 300},
	}, models.Enemies)

	limit := troops.MaxTroops(2, models.RatingD)
	assert.Equal(t, limit, u.Troops.Total())

	entries := logs.FilterMessage("troops exceed captain capacity, trimmed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 320, fields["requested"])
	assert.EqualValues(t, limit, fields["kept"])
}

func TestBuildSkipsMisses(t *testing.T) {
	a := New(testCatalog(t), WithIDGenerator(sequentialIDs()))

	units := a.Build([]models.RosterEntry{
		{Unit: "Grunt", Count: 2},
		{Unit: "Dragon"},
		{Character: &models.Character{Name: "Aria", Level: 2}},
		{Formation: &models.Formation{Name: "Vanguard", Captains: []models.Captain{
			{Name: "Sergeant", Level: 1, Health: 20, Troops: models.TroopDeployment{RankAndFile: 10}},
		}}},
		{},
	}, models.Enemies)

	require.Len(t, units, 4)
	assert.Equal(t, "Grunt 1", units[0].Name)
	assert.Equal(t, "Grunt 2", units[1].Name)
	assert.Equal(t, "Aria", units[2].Name)
	assert.Equal(t, "Sergeant", units[3].Name)

	seen := map[string]bool{}
	for _, u := range units {
		assert.Equal(t, models.Enemies, u.Side)
		assert.False(t, seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
	}
}

func TestBuildCatalogCaptain(t *testing.T) {
	a := New(testCatalog(t))

	units := a.Build([]models.RosterEntry{
		{Unit: "Paladin", Level: 1, Troops: &models.TroopDeployment{Elite: 20}},
	}, models.Allies)

	require.Len(t, units, 1)
	require.True(t, units[0].IsCaptain())
	// elite attack: 20 * 5 * 3 / 10
	assert.Equal(t, 22+30, units[0].Attributes.Attack)
}
