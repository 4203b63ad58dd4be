package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-armada/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available battle modes",
	Long:  `Shows a list of all battle modes registered in the armada.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No battle modes available.")
		return
	}

	fmt.Println("Available battle modes:")
	fmt.Println()

	// The widest mode ID sets the column
	maxIDLen := len("ID")
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'armada play <id>' to start a battle.")
}
