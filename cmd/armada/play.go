package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-armada/internal/battle"
	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/platform/tui"
	"github.com/vovakirdan/tui-armada/internal/registry"
	"github.com/vovakirdan/tui-armada/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagTheme      string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Start a battle",
	Long: `Start a battle in the chosen mode.

Controls:
  WASD/Arrows - Aim
  Space/Click - Fire
  H           - Reshuffle your fleet (before confirming)
  Enter       - Confirm fleet placement
  P/Esc       - Pause
  R           - Restart (after the battle ends)
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - CPU fires at random
  normal - CPU hunts wounded ships
  hard   - CPU hunts with parity targeting

Examples:
  armada play battle
  armada play battle_streak --difficulty hard
  armada play battle --config ./my-rules.yaml
  armada play battle --theme contrast`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom battle config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagTheme, "theme", "", "Board theme: contrast, mono")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable the terminal bell on hits and sinkings")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if the mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown battle mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'armada list' to see available modes.")
		os.Exit(1)
	}

	// Terminal size is read early so the setup screen can use it too
	width, height := 80, 24 // fallback when stdout is not a tty
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating battle: %v\n", err)
		os.Exit(1)
	}

	// Pick the opponent interactively unless the flag decided already
	skill := flagDifficulty
	if skill == "" {
		setup, updatedCfg, selErr := tui.RunBattleSetup(game.Title(), cfg, false)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			os.Exit(1)
		}
		cfg = updatedCfg

		// Setup closed without a choice; back to the shell
		if setup == nil {
			return
		}
		skill = setup.Skill
	}

	battle.SetConfigPath(flagConfig)
	battle.SetDifficultyPreset(skill)
	battle.SetThemeName(flagTheme)
	tui.SetMuted(flagMute)

	// Open battle result storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open battle database: %v\n", err)
		store = nil // play on without a battle log
	}

	runErr := tui.Run(game, store, cfg)

	// No defer; the os.Exit below would skip it
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running battle: %v\n", runErr)
		os.Exit(1)
	}
}
