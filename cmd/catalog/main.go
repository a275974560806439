package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/battle-lnk/internal/assembly"
	"github.com/napolitain/battle-lnk/internal/loader"
	"github.com/napolitain/battle-lnk/internal/models"
	"github.com/napolitain/battle-lnk/internal/troops"
)

var (
	dataDir  string
	rarity   string
	role     string
	minLevel int
	maxLevel int
	sample   int
	seed     int64
	atLevel  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the unit catalog",
		Long: `Lists unit definitions with optional rarity, role and level filters,
or draws a seeded random sample for building test rosters.`,
		RunE: runCatalog,
	}

	rootCmd.Flags().StringVarP(&dataDir, "data", "d", "data", "Path to data directory")
	rootCmd.Flags().StringVar(&rarity, "rarity", "", "Only units of this rarity (S, A, B, C, D)")
	rootCmd.Flags().StringVar(&role, "role", "", "Only units of this role (physical, magical)")
	rootCmd.Flags().IntVar(&minLevel, "min-level", 0, "Minimum native level")
	rootCmd.Flags().IntVar(&maxLevel, "max-level", 0, "Maximum native level (0 = no limit)")
	rootCmd.Flags().IntVarP(&sample, "sample", "n", 0, "Draw this many random units from the matches")
	rootCmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for --sample (default: clock)")
	rootCmd.Flags().IntVarP(&atLevel, "level", "l", 0, "Show stats scaled to this level")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildFilter turns the flag values into a catalog predicate
func buildFilter(rarity, role string, minLevel, maxLevel int) (func(models.UnitDefinition) bool, error) {
	var wantRarity models.Rating
	var wantRole models.CombatRole
	var err error

	if rarity != "" {
		if wantRarity, err = models.ParseRating(rarity); err != nil {
			return nil, err
		}
	}
	if role != "" {
		if wantRole, err = models.ParseCombatRole(role); err != nil {
			return nil, err
		}
	}

	return func(d models.UnitDefinition) bool {
		if wantRarity != "" && d.Rarity != wantRarity {
			return false
		}
		if wantRole != "" && d.Role != wantRole {
			return false
		}
		if d.Level < minLevel {
			return false
		}
		return maxLevel <= 0 || d.Level <= maxLevel
	}, nil
}

// selectUnits returns every match, or a seeded sample of n matches when n > 0
func selectUnits(catalog *assembly.Catalog, filter func(models.UnitDefinition) bool, n int, seed int64) []models.UnitDefinition {
	if n > 0 {
		return catalog.Sample(rand.New(rand.NewSource(seed)), n, filter)
	}
	return catalog.Filter(filter)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	catalog, err := loader.LoadCatalog(dataDir, nil)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	filter, err := buildFilter(rarity, role, minLevel, maxLevel)
	if err != nil {
		return err
	}

	if sample > 0 && !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	defs := selectUnits(catalog, filter, sample, seed)

	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  Unit Catalog             │")
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()
	infoColor.Printf("📦 %d of %d units\n", len(defs), catalog.Len())
	if sample > 0 {
		infoColor.Printf("🎲 Sample seed: %d\n", seed)
	}
	fmt.Println()

	printUnits(defs, atLevel)

	fmt.Println("\n🪖 Troop capacity per captain level:")
	printCapacity()
	return nil
}

// unitRow formats one table row, with stats scaled to level when it is positive
func unitRow(asm *assembly.Assembler, d models.UnitDefinition, level int) []string {
	lvl, attrs, health := d.Level, d.Attributes, d.Health
	if level > 0 {
		u := asm.FromDefinition(d, level)
		lvl, attrs, health = u.Level, u.Attributes, u.MaxHealth
	}
	return []string{
		d.Name,
		string(d.Role),
		string(d.Rarity),
		fmt.Sprintf("%d", lvl),
		fmt.Sprintf("%d", health),
		fmt.Sprintf("%d", attrs.Attack),
		fmt.Sprintf("%d", attrs.Defense),
		fmt.Sprintf("%d", attrs.Intelligence),
		fmt.Sprintf("%d", attrs.Speed),
	}
}

func printUnits(defs []models.UnitDefinition, level int) {
	header := []string{"Unit", "Role", "Rarity", "Lvl", "HP", "Atk", "Def", "Int", "Spd"}
	if level > 0 {
		header[3] = fmt.Sprintf("Lvl→%d", level)
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))

	asm := assembly.New(nil)
	for _, d := range defs {
		table.Append(unitRow(asm, d, level))
	}
	table.Render()
}

func printCapacity() {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Rarity", "Multiplier", "Lvl 1", "Lvl 5", "Lvl 10"}),
	)
	for _, r := range models.AllRatings() {
		table.Append([]string{
			string(r),
			fmt.Sprintf("×%.1f", troops.RatingMultiplier(r)),
			fmt.Sprintf("%d", troops.MaxTroops(1, r)),
			fmt.Sprintf("%d", troops.MaxTroops(5, r)),
			fmt.Sprintf("%d", troops.MaxTroops(10, r)),
		})
	}
	table.Render()
}
