package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/pet-adoption-api/config"
	pginfra "github.com/oksasatya/pet-adoption-api/internal/infrastructure/postgres"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations")
	dir := flag.String("dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-migrate", cfg.Env)

	if cfg.StorageDriver != config.DriverPostgres {
		log.Fatalf("migrations need STORAGE_DRIVER=postgres, got %q", cfg.StorageDriver)
	}
	if *dir == "" {
		*dir = cfg.MigrationsDir
	}
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), *dir, *down, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
}
