// Command resetscores empties the high-score table using the admin account
// (DB_ACC / DB_ACC_PASS).
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"BotShooter/internal/scores"
)

func main() {
	envFile := flag.String("env", "", "dotenv file (defaults to .env next to the binary)")
	timeout := flag.Duration("timeout", 10*time.Second, "connect and delete timeout")
	flag.Parse()

	path := *envFile
	if path == "" {
		if exe, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exe), ".env")
		}
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		log.Printf("env file %q: %v", path, err)
	}

	cfg := scores.ConfigFromEnv("DB_ACC", "DB_ACC_PASS")
	log.Printf("connecting to %s:%d/%s as %s (password set: %t)", cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password != "")
	if !cfg.Complete() {
		log.Fatalf("DB_HOST, DB_ACC and DB_DATABASE must be set")
	}

	store, err := scores.Open(cfg)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	n, err := store.Reset(ctx)
	if err != nil {
		log.Printf("reset scores: %v", err)
		os.Exit(1)
	}
	log.Printf("deleted %d score(s)", n)
}
