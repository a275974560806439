package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/battle-lnk/internal/assembly"
	"github.com/napolitain/battle-lnk/internal/models"
)

// UnitsFile is the name of the catalog file inside a data directory
const UnitsFile = "units.yaml"

// unitsYAML represents the YAML structure of the catalog file
type unitsYAML struct {
	Units []models.UnitDefinition `yaml:"units"`
}

// LoadUnits loads unit definitions from units.yaml in dataDir
func LoadUnits(dataDir string) ([]models.UnitDefinition, error) {
	filePath := filepath.Join(dataDir, UnitsFile)
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", UnitsFile, err)
	}
	return ParseUnits(data)
}

// ParseUnits decodes a catalog document. Unknown fields are rejected.
func ParseUnits(data []byte) ([]models.UnitDefinition, error) {
	var raw unitsYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", UnitsFile, err)
	}
	return raw.Units, nil
}

// LoadCatalog builds the catalog from dataDir. A missing units.yaml falls
// back to the built-in catalog; a malformed one is an error.
func LoadCatalog(dataDir string, logger *zap.Logger) (*assembly.Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dataDir == "" {
		return assembly.DefaultCatalog(), nil
	}

	defs, err := LoadUnits(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no catalog file, using built-in units", zap.String("dir", dataDir))
		return assembly.DefaultCatalog(), nil
	}
	if err != nil {
		return nil, err
	}

	catalog, err := assembly.NewCatalog(defs)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", filepath.Join(dataDir, UnitsFile), err)
	}
	logger.Debug("catalog loaded", zap.String("dir", dataDir), zap.Int("units", catalog.Len()))
	return catalog, nil
}

func isBattleFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadScenarios loads every battle file in dir, keyed by scenario name (the
// file's name field, or its base name). Invalid files are logged and skipped.
func LoadScenarios(dir string, logger *zap.Logger) (map[string]*models.BattleConfig, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	scenarios := make(map[string]*models.BattleConfig)
	for _, entry := range entries {
		if entry.IsDir() || !isBattleFile(entry.Name()) {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		cfg, err := models.LoadBattleConfig(filePath)
		if err == nil {
			err = models.ValidateBattleConfig(cfg)
		}
		if err != nil {
			logger.Warn("skipping battle file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		name := ScenarioName(entry.Name(), cfg)
		if _, dup := scenarios[name]; dup {
			logger.Warn("duplicate scenario name, skipping", zap.String("file", entry.Name()), zap.String("name", name))
			continue
		}
		scenarios[name] = cfg
	}
	return scenarios, nil
}

// ScenarioName returns cfg.Name, or the file name without extension
func ScenarioName(fileName string, cfg *models.BattleConfig) string {
	if cfg != nil && strings.TrimSpace(cfg.Name) != "" {
		return strings.TrimSpace(cfg.Name)
	}
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SortedNames returns the scenario names in lexical order
func SortedNames(scenarios map[string]*models.BattleConfig) []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
