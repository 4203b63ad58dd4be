package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBattle loads the battle configuration. Search order: customPath,
// then ~/.armada/configs/battle.yaml, then ./configs/battle.yaml, then
// the embedded default.
func LoadBattle(customPath string) (BattleConfig, error) {
	var cfg BattleConfig

	// An explicitly named file must load; its errors are reported, not
	// skipped over
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// The search locations are optional; a broken file falls through
	// to the next one
	if userCfgPath := userConfigPath("battle.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil && cfg.Validate() == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/battle.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Embedded default, hardcoded values as the last line
	if err := yaml.Unmarshal(defaultBattleYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultBattleConfig(), nil
	}
	return cfg, nil
}

// userConfigPath is the per-user config location, empty when the home
// directory is unknown.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".armada", "configs", filename)
}

// ApplyBattlePreset adjusts the CPU opponent for a difficulty preset.
// Rules and fleet stay as configured; only the opponent changes.
func ApplyBattlePreset(cfg *BattleConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.CPU.Skill = string(DifficultyEasy)
		cfg.CPU.AimDelayTicks = 75
	case DifficultyNormal:
		cfg.CPU.Skill = string(DifficultyNormal)
		cfg.CPU.AimDelayTicks = 45
	case DifficultyHard:
		cfg.CPU.Skill = string(DifficultyHard)
		cfg.CPU.AimDelayTicks = 30
	}
}
