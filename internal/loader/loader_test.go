package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/battle-lnk/internal/assembly"
	"github.com/napolitain/battle-lnk/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadUnits(t *testing.T) {
	units, err := LoadUnits("../../data")
	if err != nil {
		t.Fatalf("Failed to load units: %v", err)
	}
	if len(units) < len(models.DefaultUnitDefinitions()) {
		t.Errorf("Expected at least the built-in units, got %d", len(units))
	}

	byName := map[string]models.UnitDefinition{}
	for _, u := range units {
		byName[u.Name] = u
	}
	troll, ok := byName["Troll"]
	require.True(t, ok, "Troll not found")
	assert.Equal(t, models.Physical, troll.Role)
	assert.Equal(t, models.RatingA, troll.Rarity)
	assert.Equal(t, 140, troll.Health)

	mage := byName["Hedge Mage"]
	assert.Equal(t, models.Magical, mage.Role)
	assert.Equal(t, 18, mage.Attributes.Intelligence)
}

func TestDataFileMatchesBuiltins(t *testing.T) {
	units, err := LoadUnits("../../data")
	require.NoError(t, err)

	byName := map[string]models.UnitDefinition{}
	for _, u := range units {
		u.Description = ""
		byName[u.Name] = u
	}
	for _, def := range models.DefaultUnitDefinitions() {
		assert.Equal(t, def, byName[def.Name], def.Name)
	}
}

func TestParseUnitsRejectsUnknownFields(t *testing.T) {
	_, err := ParseUnits([]byte("units:\n  - name: Ghost\n    role: physical\n    armor: 3\n"))
	assert.Error(t, err)

	_, err = ParseUnits([]byte("units:\n  - name: Ghost\n    role: ranged\n"))
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog("../../data", nil)
	require.NoError(t, err)
	_, ok := catalog.Lookup("necromancer")
	assert.True(t, ok)
}

func TestLoadCatalogFallsBackWhenMissing(t *testing.T) {
	catalog, err := LoadCatalog(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, len(models.DefaultUnitDefinitions()), catalog.Len())

	catalog, err = LoadCatalog("", nil)
	require.NoError(t, err)
	assert.Equal(t, len(models.DefaultUnitDefinitions()), catalog.Len())
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, UnitsFile, "units: [")
	_, err := LoadCatalog(dir, nil)
	assert.Error(t, err)

	dup := t.TempDir()
	writeFile(t, dup, UnitsFile, "units:\n  - {name: Imp, role: physical}\n  - {name: imp, role: magical}\n")
	_, err = LoadCatalog(dup, nil)
	assert.True(t, errors.Is(err, assembly.ErrDuplicateUnit), "got %v", err)
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("../../examples", nil)
	require.NoError(t, err)

	for _, name := range []string{"duel", "border-skirmish", "warband", "necromancer"} {
		assert.Contains(t, scenarios, name)
	}
	assert.Equal(t, "Warband Chief", scenarios["warband"].Focus)
	require.NotNil(t, scenarios["warband"].Seed)
	assert.Equal(t, int64(2024), *scenarios["warband"].Seed)
	assert.Equal(t, []models.Side{models.Allies, models.Enemies}, scenarios["necromancer"].CasualtySides)

	names := SortedNames(scenarios)
	assert.IsIncreasing(t, names)
}

func TestLoadScenariosSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", "allies:\n  - unit: Knight\nenemies:\n  - unit: Troll\n")
	writeFile(t, dir, "empty.yaml", "name: empty\n")
	writeFile(t, dir, "broken.yml", "allies: [")
	writeFile(t, dir, "notes.txt", "not a battle")
	writeFile(t, dir, "typo.yaml", "alies:\n  - unit: Knight\n")

	scenarios, err := LoadScenarios(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, SortedNames(scenarios))

	_, err = LoadScenarios(filepath.Join(dir, "missing"), nil)
	assert.Error(t, err)
}

func TestScenarioName(t *testing.T) {
	assert.Equal(t, "siege", ScenarioName("dir/siege.yaml", nil))
	assert.Equal(t, "siege", ScenarioName("siege.json", &models.BattleConfig{}))
	assert.Equal(t, "The Siege", ScenarioName("siege.yaml", &models.BattleConfig{Name: " The Siege "}))
}
