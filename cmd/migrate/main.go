package main

import (
	"flag"
	"log"

	"vidquiz/internal/config"
	"vidquiz/internal/database"
	"vidquiz/internal/logger"

	"go.uber.org/zap"
)

func main() {
	migrationsDir := flag.String("dir", "database/migrations", "path to the migrations directory")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger.Env, cfg.Logger.Level)
	l := logger.Get()
	defer l.Sync()

	if err := database.RunMigrations(cfg.GetDSN(), *migrationsDir); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("dir", *migrationsDir))
}
