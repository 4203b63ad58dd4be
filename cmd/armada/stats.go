package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-armada/internal/registry"
	"github.com/vovakirdan/tui-armada/internal/storage"
)

var flagClearStats bool

var statsCmd = &cobra.Command{
	Use:   "stats [mode]",
	Short: "Show recorded battle results",
	Long: `Display win rates and recent battles.

With no argument, shows a summary for every battle mode plus recent
online matches. With a mode argument, shows that mode's recent battles.

Examples:
  armada stats
  armada stats battle
  armada stats battle_streak
  armada stats battle --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagClearStats, "clear", false, "Delete recorded battles for the given mode")
}

func runStats(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening battle database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClearStats {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a battle mode")
			os.Exit(1)
		}
		printSummary(store)
		return
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown battle mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'armada list' to see available modes.")
		os.Exit(1)
	}

	if flagClearStats {
		if err := store.ClearBattles(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing battles: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared recorded battles for %s.\n", gameID)
		return
	}

	printModeStats(store, gameID)
}

// printSummary shows per-mode totals plus recent online matches.
func printSummary(store *storage.Store) {
	all, err := store.AllBattleStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Battle results")
	fmt.Println()

	if len(all) == 0 {
		fmt.Println("No battles recorded yet.")
		fmt.Println()
		fmt.Println("Play 'armada play battle' to fight the first one!")
	} else {
		ids := make([]string, 0, len(all))
		for id := range all {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Printf("  %-14s  %-8s  %-6s  %-8s  %s\n", "Mode", "Battles", "Won", "Best acc", "Avg shots")
		fmt.Printf("  %-14s  %-8s  %-6s  %-8s  %s\n", "----", "-------", "---", "--------", "---------")
		for _, id := range ids {
			st := all[id]
			acc := fmt.Sprintf("%.0f%%", st.BestAccuracy)
			fmt.Printf("  %-14s  %-8d  %-6d  %-8s  %.1f\n", id, st.Battles, st.Wins, acc, st.AvgShots)
		}
	}

	matches, err := store.RecentOnlineMatches(5)
	if err != nil || len(matches) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent online matches:")
	fmt.Println()
	for _, match := range matches {
		outcome := "Draw"
		if match.WinnerSession != "" {
			switch match.WinnerSession {
			case match.Player1Session:
				outcome = "P1 won"
			case match.Player2Session:
				outcome = "P2 won"
			}
		}
		dateStr := match.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-8s  %d : %d  %-22s  %s\n", outcome, match.Score1, match.Score2, match.EndReason, dateStr)
	}
}

// printModeStats shows one mode's totals and its recent battles.
func printModeStats(store *storage.Store, gameID string) {
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating battle: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	stats, err := store.BattleStats(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Battle results - %s\n", title)
	fmt.Println()

	if stats.Battles == 0 {
		fmt.Println("No battles recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'armada play %s' to fight the first one!\n", gameID)
		return
	}

	fmt.Printf("Battles: %d   Won: %d   Best accuracy: %.0f%%   Avg shots: %.1f\n",
		stats.Battles, stats.Wins, stats.BestAccuracy, stats.AvgShots)
	fmt.Println()

	records, err := store.RecentBattles(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving battles: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  %-8s  %-5s  %-6s  %-4s  %s\n", "Result", "Hits", "Shots", "Acc", "Date")
	fmt.Printf("  %-8s  %-5s  %-6s  %-4s  %s\n", "------", "----", "-----", "---", "----")
	for _, rec := range records {
		result := "Defeat"
		if rec.Won {
			result = "Victory"
		}
		acc := 0
		if rec.Shots > 0 {
			acc = rec.Hits * 100 / rec.Shots
		}
		dateStr := rec.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-8s  %-5d  %-6d  %3d%%  %s\n", result, rec.Hits, rec.Shots, acc, dateStr)
	}
}
