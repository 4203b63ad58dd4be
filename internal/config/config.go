// Package config provides YAML-based battle configuration loading for
// the armada platform: grid rules, fleet composition, CPU skill and
// board theming.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-armada/internal/core"
)

// Grid size limits. Below 5 the default fleet cannot fit; above 12 two
// boards no longer fit an 80-column terminal.
const (
	MinGridSize = 5
	MaxGridSize = 12
)

// BattleConfig contains all configuration for a battle.
type BattleConfig struct {
	Rules RulesConfig `yaml:"rules"`
	Fleet []ShipSpec  `yaml:"fleet"`
	CPU   CPUConfig   `yaml:"cpu"`
	Theme ThemeConfig `yaml:"theme"`
}

// RulesConfig defines the board and turn rules.
type RulesConfig struct {
	// GridSize is the board edge length in cells.
	GridSize int `yaml:"grid_size"`

	// AllowTouching permits ships to occupy adjacent cells. The
	// classic rule keeps one cell of water around every ship.
	AllowTouching bool `yaml:"allow_touching"`

	// ExtraShotOnHit keeps the turn with the shooter after a hit
	// instead of always alternating.
	ExtraShotOnHit bool `yaml:"extra_shot_on_hit"`
}

// ShipSpec declares one ship class in the fleet.
type ShipSpec struct {
	Name   string `yaml:"name"`
	Length int    `yaml:"length"`
	Count  int    `yaml:"count"`
}

// CPUConfig tunes the computer opponent.
type CPUConfig struct {
	// Skill is "easy", "normal" or "hard". Easy fires at random;
	// normal hunts around its hits; hard additionally searches on a
	// checkerboard pattern.
	Skill string `yaml:"skill"`

	// AimDelayTicks is the base pause before the CPU fires, so shots
	// do not land instantly. Jitter is added on top.
	AimDelayTicks int `yaml:"aim_delay_ticks"`
}

// ThemeConfig selects the glyphs and colors used to draw the boards.
// Glyph fields hold a single character; color fields hold ANSI color
// names understood by core.ParseColor.
type ThemeConfig struct {
	Name string `yaml:"name"`

	WaterGlyph  string `yaml:"water_glyph"`
	ShipGlyph   string `yaml:"ship_glyph"`
	MissGlyph   string `yaml:"miss_glyph"`
	HitGlyph    string `yaml:"hit_glyph"`
	SunkGlyph   string `yaml:"sunk_glyph"`
	CursorGlyph string `yaml:"cursor_glyph"`

	WaterColor string `yaml:"water_color"`
	ShipColor  string `yaml:"ship_color"`
	MissColor  string `yaml:"miss_color"`
	HitColor   string `yaml:"hit_color"`
	SunkColor  string `yaml:"sunk_color"`
	GridColor  string `yaml:"grid_color"`
}

// DifficultyPreset represents a named CPU difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Validate checks the config for values the battle engine cannot run
// with. Returns nil when the config is usable.
func (c BattleConfig) Validate() error {
	if c.Rules.GridSize < MinGridSize || c.Rules.GridSize > MaxGridSize {
		return fmt.Errorf("config: grid_size %d out of range [%d, %d]",
			c.Rules.GridSize, MinGridSize, MaxGridSize)
	}

	if len(c.Fleet) == 0 {
		return fmt.Errorf("config: fleet must declare at least one ship class")
	}
	cells := 0
	for _, spec := range c.Fleet {
		if spec.Length < 1 {
			return fmt.Errorf("config: ship %q has length %d, must be at least 1",
				spec.Name, spec.Length)
		}
		if spec.Length > c.Rules.GridSize {
			return fmt.Errorf("config: ship %q length %d exceeds grid size %d",
				spec.Name, spec.Length, c.Rules.GridSize)
		}
		if spec.Count < 1 {
			return fmt.Errorf("config: ship %q has count %d, must be at least 1",
				spec.Name, spec.Count)
		}
		cells += spec.Length * spec.Count
	}

	// Loose density bound; random placement degrades into failed
	// retries well before half the board is covered in ships.
	if limit := c.Rules.GridSize * c.Rules.GridSize / 2; cells > limit {
		return fmt.Errorf("config: fleet covers %d cells, more than half the board (%d)",
			cells, limit)
	}

	switch DifficultyPreset(c.CPU.Skill) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
	default:
		return fmt.Errorf("config: unknown cpu skill %q", c.CPU.Skill)
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"water_color", c.Theme.WaterColor},
		{"ship_color", c.Theme.ShipColor},
		{"miss_color", c.Theme.MissColor},
		{"hit_color", c.Theme.HitColor},
		{"sunk_color", c.Theme.SunkColor},
		{"grid_color", c.Theme.GridColor},
	} {
		if _, ok := core.ParseColor(field.value); !ok {
			return fmt.Errorf("config: theme %s %q is not a known color", field.name, field.value)
		}
	}
	return nil
}

// FleetCells returns the total number of cells the configured fleet
// occupies.
func (c BattleConfig) FleetCells() int {
	n := 0
	for _, spec := range c.Fleet {
		n += spec.Length * spec.Count
	}
	return n
}
