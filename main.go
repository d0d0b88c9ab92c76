package main

import (
	"flag"
	"math"

	"BotShooter/internal/server"
)

func main() {
	def := server.DefaultAppConfig()
	addr := flag.String("addr", def.Addr, "address to listen on (e.g., 127.0.0.1:8080)")
	tuningPath := flag.String("tuning", def.TuningPath, "path to encounter tuning YAML")
	envFile := flag.String("env", def.EnvFile, "dotenv file with DB_* settings (optional)")
	prefsApp := flag.String("prefs-app", def.PrefsApp, "application name for stored player preferences")
	maxEnemiesCap := flag.Int("max-enemies-cap", -1, "override the enemy population ceiling")
	spawnInterval := flag.Float64("spawn-interval-ms", math.NaN(), "override the initial spawn interval")
	minSpawnInterval := flag.Float64("min-spawn-interval-ms", math.NaN(), "override the spawn interval floor")
	difficultyInterval := flag.Float64("difficulty-interval-ms", math.NaN(), "override time between difficulty steps")
	dropChance := flag.Float64("drop-chance", math.NaN(), "override loot drop chance (0-1)")
	flag.Parse()

	cfg := def
	cfg.Addr = *addr
	cfg.TuningPath = *tuningPath
	cfg.EnvFile = *envFile
	cfg.PrefsApp = *prefsApp

	var overrides server.TuningOverrides

	if *maxEnemiesCap >= 0 {
		val := *maxEnemiesCap
		overrides.MaxEnemiesCap = &val
	}
	if !math.IsNaN(*spawnInterval) {
		val := *spawnInterval
		overrides.SpawnIntervalMs = &val
	}
	if !math.IsNaN(*minSpawnInterval) {
		val := *minSpawnInterval
		overrides.MinSpawnIntervalMs = &val
	}
	if !math.IsNaN(*difficultyInterval) {
		val := *difficultyInterval
		overrides.DifficultyIntervalMs = &val
	}
	if !math.IsNaN(*dropChance) {
		val := *dropChance
		overrides.DropChance = &val
	}

	cfg.TuningOverrides = overrides

	server.StartApp(cfg)
}
