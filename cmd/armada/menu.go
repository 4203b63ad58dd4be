package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-armada/internal/battle"
	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/platform/tui"
	"github.com/vovakirdan/tui-armada/internal/registry"
	"github.com/vovakirdan/tui-armada/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the armada with a battle picker menu",
	Long: `Start the armada in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a battle mode.
After a battle ends, you return to the menu to fight again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select battle
  Tab          - Battle log
  Q            - Quit

Examples:
  armada menu
  armada menu --fps 30
  armada menu --db ./battles.db`,
	Run: runMenu,
}

func init() {
	// The root command's --fps, --seed, and --db flags apply here
}

func runMenu(_ *cobra.Command, _ []string) {
	// A broken database degrades to playing without a battle log
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open battle database: %v\n", err)
		store = nil
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Menu, battle, back to menu, until the player quits
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Carry any resize into the next screen
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsBattleLog {
			goBack, logErr := tui.RunBattleLog(store, cfg.ScreenW, cfg.ScreenH)
			if logErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", logErr)
			}
			if goBack {
				continue // back to the picker
			}
			break // User quit from the battle log
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		game, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating battle: %v\n", err)
			continue
		}

		// Pick the opponent
		setup, updatedCfg, setupErr := tui.RunBattleSetup(game.Title(), cfg, false)
		if setupErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", setupErr)
			continue
		}
		cfg = updatedCfg

		// User pressed back or quit
		if setup == nil {
			continue
		}

		battle.SetConfigPath(flagConfig)
		battle.SetDifficultyPreset(setup.Skill)
		battle.SetThemeName(flagTheme)

		// Fresh seed per battle so fleets never repeat
		cfg.Seed = time.Now().UnixNano()

		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running battle: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
