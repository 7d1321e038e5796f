// Package stories removes stories that have aged past their 24 hour
// lifetime, along with their view records and media files.
package stories

import (
	"context"
	"time"

	"github.com/worldwide-social/worldwide/internal/clock"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileDeleter deletes stored media by key
type FileDeleter interface {
	Delete(ctx context.Context, key string) error
}

// CleanupService handles periodic cleanup of expired stories
type CleanupService struct {
	db          *gorm.DB
	fileDeleter FileDeleter
	clk         clock.Clock
	interval    time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewCleanupService creates a cleanup service. fileDeleter may be nil,
// in which case media files are left behind.
func NewCleanupService(db *gorm.DB, fileDeleter FileDeleter, clk clock.Clock, interval time.Duration) *CleanupService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CleanupService{
		db:          db,
		fileDeleter: fileDeleter,
		clk:         clk,
		interval:    interval,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Start begins the periodic cleanup process
func (s *CleanupService) Start() {
	logger.Log.Info("Starting story cleanup service",
		zap.Duration("interval", s.interval))
	go s.run()
}

// Stop stops the cleanup service and waits for the loop to exit
func (s *CleanupService) Stop() {
	s.cancel()
	<-s.done
	logger.Log.Info("Story cleanup service stopped")
}

func (s *CleanupService) run() {
	defer close(s.done)

	// Run immediately on startup, then on interval
	s.CleanupExpired()

	ticker := s.clk.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.CleanupExpired()
		case <-s.ctx.Done():
			return
		}
	}
}

// CleanupExpired deletes expired stories, their view records, and their
// media files. Media deletion failures are logged and skipped; the
// database rows still go.
func (s *CleanupService) CleanupExpired() {
	start := s.clk.Now()

	var expired []models.Story
	if err := s.db.Where("expires_at < ?", s.clk.Now().UTC()).Find(&expired).Error; err != nil {
		logger.Log.Error("Failed to query expired stories", zap.Error(err))
		return
	}
	if len(expired) == 0 {
		return
	}

	deleted := 0
	mediaDeleted := 0
	viewsDeleted := 0
	failures := 0

	for _, story := range expired {
		// View records first, then the story row
		views := s.db.Where("story_id = ?", story.ID).Delete(&models.StoryView{}).RowsAffected
		viewsDeleted += int(views)

		if story.MediaKey != "" && s.fileDeleter != nil {
			ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
			err := s.fileDeleter.Delete(ctx, story.MediaKey)
			cancel()
			if err != nil {
				logger.Log.Warn("Failed to delete story media",
					zap.String("story_id", story.ID),
					zap.String("media_key", story.MediaKey),
					zap.Error(err),
				)
			} else {
				mediaDeleted++
			}
		}

		// Hard delete; expired stories are purged, not archived
		if err := s.db.Unscoped().Delete(&story).Error; err != nil {
			logger.Log.Error("Failed to delete story",
				zap.String("story_id", story.ID),
				zap.Error(err),
			)
			failures++
			continue
		}
		deleted++
	}

	logger.Log.Info("Story cleanup completed",
		zap.Int("stories_deleted", deleted),
		zap.Int("media_deleted", mediaDeleted),
		zap.Int("views_deleted", viewsDeleted),
		zap.Int("failures", failures),
		zap.Duration("duration", s.clk.Now().Sub(start)),
	)
}
