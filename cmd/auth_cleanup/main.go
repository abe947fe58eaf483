package main

import (
	"context"
	"log"

	"imagencali/internal/config"
	"imagencali/internal/database"
	"imagencali/internal/modules/maintenance"
	"imagencali/internal/repository"

	"github.com/joho/godotenv"
)

// One-shot sweep of expired refresh tokens and stale login attempts,
// for cron setups that prefer not to rely on the API's background loop.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	sweeper := maintenance.NewSweeper(
		repository.NewRefreshTokenRepository(db),
		repository.NewLoginAttemptRepository(db),
		cfg.SweepRetention,
	)
	if err := sweeper.RunOnce(context.Background()); err != nil {
		log.Fatal(err)
	}
}
