package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/worldwide-social/worldwide/internal/database"
	"github.com/worldwide-social/worldwide/internal/logger"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Initialize("info", ""); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}

	logger.Log.Info("Migrations completed")
}
