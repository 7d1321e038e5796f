package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/worldwide-social/worldwide/internal/database"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/seed"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Initialize("info", ""); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	seeder := seed.NewSeeder(database.DB)

	switch command {
	case "dev":
		if err := seeder.SeedDev(); err != nil {
			logger.Log.Fatal("Seeding failed", zap.Error(err))
		}
	case "clean":
		if err := seeder.Clean(); err != nil {
			logger.Log.Fatal("Clean failed", zap.Error(err))
		}
	default:
		fmt.Println("Usage: seed [dev|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}
}
