// armada is a turn-based naval battle for the terminal.
//
// Usage:
//
//	armada list              - List available battle modes
//	armada play <mode>       - Start a battle
//	armada menu              - Start menu to pick a battle interactively
//	armada serve             - Start SSH server for online play
//	armada stats [mode]      - Show recorded battle results
//
// Global flags:
//
//	--fps <rate>    - Simulation tick rate (default: 60)
//	--seed <value>  - RNG seed for reproducible fleet placement
//	--db <path>     - Battle database path (default: ~/.armada/battles.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import battle modes to register them
	_ "github.com/vovakirdan/tui-armada/internal/battle"
)

var (
	// Flags every subcommand inherits
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "armada",
	Short: "Armada - Sea battle in your terminal",
	Long: `Armada is a terminal-based naval battle. Place your fleet, trade
shots with the CPU or another player, and sink every enemy ship.

Available commands:
  list     - Show all available battle modes
  play     - Start a battle directly
  menu     - Interactive battle picker menu
  serve    - Start SSH server for online play
  stats    - View recorded battle results

Examples:
  armada list
  armada play battle
  armada menu
  armada serve --ssh :2222
  armada stats battle`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = seed from the clock)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.armada/battles.db", "Path to battle results database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}
