package database

import (
	"fmt"
	"os"
	"time"

	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize opens the local SQLite database. The path comes from
// DATABASE_PATH (default "worldwide.db"); ":memory:" gives a throwaway
// in-process database for tests and dry runs.
func Initialize() error {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "worldwide.db"
	}

	gormLogger := gormlogger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; serialize through a single
	// connection instead of surfacing SQLITE_BUSY to handlers.
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	DB = db
	logger.Log.Info("Database opened", zap.String("path", path))

	return nil
}

// Migrate runs auto-migration for all models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Reel{},
		&models.Story{},
		&models.StoryView{},
		&models.Comment{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.StateEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Log.Info("Database migrations completed")
	return nil
}
