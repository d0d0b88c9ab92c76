package server

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	. "BotShooter/internal/game"
	"BotShooter/internal/scores"
)

type AppConfig struct {
	Addr            string
	TuningPath      string
	TuningOverrides TuningOverrides
	EnvFile         string
	PrefsApp        string
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Addr:       ":8080",
		TuningPath: "configs/tuning.yaml",
		EnvFile:    ".env",
		PrefsApp:   "bot_shooter",
	}
}

// App bundles what the HTTP handlers share.
type App struct {
	Hub    *Hub
	Scores ScoreStore
	Prefs  *PrefsStore
}

func resolveTuning(cfg AppConfig) Tuning {
	tuning := DefaultTuning()
	loaded, err := loadTuningFromFile(cfg.TuningPath, tuning)
	if err != nil {
		log.Printf("tuning config: %v (using defaults)", err)
	} else {
		tuning = loaded
	}
	return applyTuningOverrides(tuning, cfg.TuningOverrides)
}

// loadEnv reads the .env file if there is one. Variables already in the
// environment win.
func loadEnv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return
		}
		log.Printf("env file %q: %v", path, err)
		return
	}
	log.Printf("loaded environment from %s", path)
}

func StartApp(cfg AppConfig) {
	loadEnv(cfg.EnvFile)
	tuning := resolveTuning(cfg)

	store, err := scores.Open(scores.ConfigFromEnv("DB_USER", "DB_PASSWORD"))
	if err != nil {
		log.Printf("scores: %v (score submissions will fail)", err)
	}
	defer store.Close()

	app := &App{
		Hub:    NewHub(tuning),
		Scores: store,
		Prefs:  OpenPrefsStore(cfg.PrefsApp),
	}

	// Periodic cleanup of ended sessions (every 60 seconds)
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if n := app.Hub.CleanupEnded(); n > 0 {
				log.Printf("hub: removed %d ended sessions", n)
			}
		}
	}()

	d := tuning.Difficulty
	log.Printf("starting web server on %s (max enemies %d..%d, spawn every %.0f..%.0f ms, drop chance %.2f)\n",
		cfg.Addr, d.InitialMaxEnemies, d.MaxEnemiesCap, d.InitialSpawnIntervalMs, d.MinSpawnIntervalMs, tuning.Loot.DropChance)
	startServer(app, cfg.Addr)
}
