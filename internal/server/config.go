package server

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	. "BotShooter/internal/game"
)

// TuningOverrides represents optional command-line overrides for the
// encounter director.
type TuningOverrides struct {
	MaxEnemiesCap        *int
	SpawnIntervalMs      *float64
	MinSpawnIntervalMs   *float64
	DifficultyIntervalMs *float64
	DropChance           *float64
}

func (o TuningOverrides) apply(base Tuning) Tuning {
	if o.MaxEnemiesCap != nil {
		base.Difficulty.MaxEnemiesCap = *o.MaxEnemiesCap
	}
	if o.SpawnIntervalMs != nil {
		base.Difficulty.InitialSpawnIntervalMs = *o.SpawnIntervalMs
	}
	if o.MinSpawnIntervalMs != nil {
		base.Difficulty.MinSpawnIntervalMs = *o.MinSpawnIntervalMs
	}
	if o.DifficultyIntervalMs != nil {
		base.Difficulty.StepIntervalMs = *o.DifficultyIntervalMs
	}
	if o.DropChance != nil {
		base.Loot.DropChance = *o.DropChance
	}
	return SanitizeTuning(base)
}

// loadTuningFromFile merges the YAML file at path over base. Fields the
// file omits keep their base values. A missing file is not an error.
func loadTuningFromFile(path string, base Tuning) (Tuning, error) {
	if path == "" {
		return SanitizeTuning(base), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return SanitizeTuning(base), nil
		}
		return SanitizeTuning(base), fmt.Errorf("read tuning %q: %w", cleanPath, err)
	}
	merged := base
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return SanitizeTuning(base), fmt.Errorf("parse tuning %q: %w", cleanPath, err)
	}
	return SanitizeTuning(merged), nil
}

func applyTuningOverrides(base Tuning, overrides TuningOverrides) Tuning {
	return overrides.apply(base)
}
