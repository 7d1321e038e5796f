package models

import (
	"time"

	"gorm.io/gorm"
)

// StoryTTL is how long a story stays visible after posting
const StoryTTL = 24 * time.Hour

// Story is an ephemeral single-image item shown in a full-screen overlay
// with a timed progress bar. Expired stories are removed by the cleanup
// service together with their media files.
type Story struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ImageURL string `gorm:"not null" json:"image"`
	// MediaKey locates the stored media file for deletion on expiry
	MediaKey string `json:"-"`

	ViewCount int       `gorm:"default:0" json:"view_count"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Expired reports whether the story is past its TTL
func (s *Story) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// StoryView records that a user has seen a story
type StoryView struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	StoryID  string    `gorm:"not null;index" json:"story_id"`
	ViewerID string    `gorm:"not null;index" json:"viewer_id"`
	ViewedAt time.Time `json:"viewed_at"`
}
