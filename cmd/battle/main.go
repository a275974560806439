package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/napolitain/battle-lnk/internal/battle"
	"github.com/napolitain/battle-lnk/internal/loader"
	"github.com/napolitain/battle-lnk/internal/models"
)

var (
	dataDir    string
	battleFile string
	seed       int64
	quiet      bool
	jsonOutput bool
	replay     bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "battle",
		Short: "Turn-based battle resolver",
		Long: `Assembles the two rosters of a battle file against the unit catalog
and resolves the fight turn by turn.`,
		RunE: runBattle,
	}

	rootCmd.Flags().StringVarP(&dataDir, "data", "d", "data", "Path to data directory")
	rootCmd.Flags().StringVarP(&battleFile, "file", "f", "", "Path to YAML or JSON battle file")
	rootCmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Random seed (overrides the file's seed)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the outcome")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the battle result as JSON")
	rootCmd.Flags().BoolVarP(&replay, "replay", "r", false, "Step through the turns interactively")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	_ = rootCmd.MarkFlagRequired("file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func runBattle(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	catalog, err := loader.LoadCatalog(dataDir, logger)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	config, err := models.LoadBattleConfig(battleFile)
	if err != nil {
		return fmt.Errorf("loading battle file: %w", err)
	}

	var opts []battle.Option
	if cmd.Flags().Changed("seed") {
		opts = append(opts, battle.WithSeed(seed))
	}
	engine, err := battle.FromConfig(config, catalog, battle.Setup{Logger: logger}, opts...)
	if err != nil {
		return fmt.Errorf("invalid battle: %w", err)
	}

	if !quiet && !jsonOutput && !replay {
		name := loader.ScenarioName(battleFile, config)
		titleColor.Println("\n╭───────────────────────────╮")
		titleColor.Printf("│  %-25s│\n", truncate(name, 25))
		titleColor.Println("╰───────────────────────────╯")
		fmt.Println()

		start := engine.State()
		infoColor.Println("🛡️  Allies:")
		printRoster(start.Allies)
		infoColor.Println("\n⚔️  Enemies:")
		printRoster(start.Enemies)
	}

	result := engine.ExecuteBattle()

	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case replay:
		return runReplay(result)
	}

	if !quiet {
		fmt.Println("\n📜 Battle Log:")
		printLog(result.Turns)
	}
	printOutcome(result)
	if !quiet {
		printStatistics(result)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func troopSummary(d *models.TroopDeployment) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d/%d/%d", d.RankAndFile, d.Elite, d.CasterSupport, d.Champion)
}

func printRoster(units []models.BattleUnit) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Unit", "Role", "Lvl", "HP", "Atk", "Def", "Int", "Spd", "Troops R/E/C/Ch"}),
	)
	for _, u := range units {
		table.Append([]string{
			u.Name,
			string(u.Role),
			fmt.Sprintf("%d", u.Level),
			fmt.Sprintf("%d/%d", u.CurrentHealth, u.MaxHealth),
			fmt.Sprintf("%d", u.Attributes.Attack),
			fmt.Sprintf("%d", u.Attributes.Defense),
			fmt.Sprintf("%d", u.Attributes.Intelligence),
			fmt.Sprintf("%d", u.Attributes.Speed),
			troopSummary(u.Troops),
		})
	}
	table.Render()
}

func printLog(turns []models.BattleTurn) {
	allyColor := color.New(color.FgGreen)
	enemyColor := color.New(color.FgRed)
	deathColor := color.New(color.FgHiBlack, color.Bold)

	for _, turn := range turns {
		fmt.Printf("\n   Turn %d\n", turn.Number)
		for _, a := range turn.Actions {
			c := allyColor
			if a.ActorSide == models.Enemies {
				c = enemyColor
			}
			c.Printf("     %s\n", a.Description)
			if a.TargetDied {
				deathColor.Printf("       %s falls\n", a.TargetName)
			}
		}
	}
}

func printOutcome(result models.BattleResult) {
	switch result.Winner {
	case models.Allies:
		color.New(color.FgGreen, color.Bold).Printf("\n✓ Victory in %d turns\n", result.TotalTurns)
	case models.Enemies:
		color.New(color.FgRed, color.Bold).Printf("\n✗ Defeat in %d turns\n", result.TotalTurns)
	default:
		color.New(color.FgYellow, color.Bold).Printf("\n= Draw after %d turns\n", result.TotalTurns)
	}
}

func printStatistics(result models.BattleResult) {
	stats := result.Statistics
	fmt.Println("\n📊 Summary:")
	fmt.Printf("   Damage dealt:    %d\n", stats.TotalDamageDealt)
	fmt.Printf("   Damage received: %d\n", stats.TotalDamageReceived)
	fmt.Printf("   Actions: %d (hits %d, criticals %d, misses %d)\n",
		stats.Actions, stats.Hits, stats.Criticals, stats.Misses)

	names := map[string]string{}
	for _, u := range append(result.FinalState.Allies, result.FinalState.Enemies...) {
		names[u.ID] = u.Name
	}
	ids := make([]string, 0, len(stats.DamageByUnit))
	for id := range stats.DamageByUnit {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if stats.DamageByUnit[ids[i]] != stats.DamageByUnit[ids[j]] {
			return stats.DamageByUnit[ids[i]] > stats.DamageByUnit[ids[j]]
		}
		return names[ids[i]] < names[ids[j]]
	})

	fmt.Println("\n⚔️  Damage by unit:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Unit", "Damage"}),
	)
	for _, id := range ids {
		table.Append([]string{names[id], fmt.Sprintf("%d", stats.DamageByUnit[id])})
	}
	table.Render()

	fmt.Println("\n🏁 Final State:")
	printRoster(result.FinalState.Allies)
	printRoster(result.FinalState.Enemies)
}
