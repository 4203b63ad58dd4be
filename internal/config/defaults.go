package config

import (
	_ "embed"
)

//go:embed defaults/battle.yaml
var defaultBattleYAML []byte

// DefaultBattleConfig returns the default battle configuration.
// Kept in sync with the embedded defaults/battle.yaml; the hardcoded
// form is the last-resort fallback if the embed fails to parse.
func DefaultBattleConfig() BattleConfig {
	return BattleConfig{
		Rules: RulesConfig{
			GridSize:       8,
			AllowTouching:  false,
			ExtraShotOnHit: false,
		},
		Fleet: []ShipSpec{
			{Name: "Battleship", Length: 4, Count: 1},
			{Name: "Cruiser", Length: 3, Count: 2},
			{Name: "Destroyer", Length: 2, Count: 2},
			{Name: "Submarine", Length: 1, Count: 2},
		},
		CPU: CPUConfig{
			Skill:         string(DifficultyNormal),
			AimDelayTicks: 45,
		},
		Theme: DefaultTheme(),
	}
}

// DefaultTheme returns the standard board theme.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Name:        "default",
		WaterGlyph:  "·",
		ShipGlyph:   "█",
		MissGlyph:   "◦",
		HitGlyph:    "✸",
		SunkGlyph:   "▓",
		CursorGlyph: "+",
		WaterColor:  "blue",
		ShipColor:   "white",
		MissColor:   "bright_cyan",
		HitColor:    "bright_red",
		SunkColor:   "red",
		GridColor:   "gray",
	}
}

// NamedTheme returns a built-in theme by name: "default", "contrast"
// for low-color terminals, or "mono" for no color at all. Unknown
// names fall back to the default theme.
func NamedTheme(name string) ThemeConfig {
	switch name {
	case "contrast":
		return ThemeConfig{
			Name:        "contrast",
			WaterGlyph:  "~",
			ShipGlyph:   "#",
			MissGlyph:   "o",
			HitGlyph:    "X",
			SunkGlyph:   "%",
			CursorGlyph: "+",
			WaterColor:  "bright_blue",
			ShipColor:   "bright_white",
			MissColor:   "bright_cyan",
			HitColor:    "bright_yellow",
			SunkColor:   "bright_red",
			GridColor:   "white",
		}
	case "mono":
		return ThemeConfig{
			Name:        "mono",
			WaterGlyph:  ".",
			ShipGlyph:   "#",
			MissGlyph:   "o",
			HitGlyph:    "X",
			SunkGlyph:   "%",
			CursorGlyph: "+",
			WaterColor:  "default",
			ShipColor:   "default",
			MissColor:   "default",
			HitColor:    "default",
			SunkColor:   "default",
			GridColor:   "default",
		}
	default:
		return DefaultTheme()
	}
}

// GetDefaultYAML returns the embedded default YAML for a mode.
func GetDefaultYAML(modeID string) []byte {
	switch modeID {
	case "battle", "battle_streak":
		return defaultBattleYAML
	default:
		return nil
	}
}
