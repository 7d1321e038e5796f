package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileFont is one of the fonts a user can pick for their profile
type ProfileFont string

const (
	FontSpace ProfileFont = "space"
	FontSyne  ProfileFont = "syne"
	FontSerif ProfileFont = "serif"
	FontMono  ProfileFont = "mono"
)

// ThemeConfig stores a user's visual theme preferences
type ThemeConfig struct {
	PrimaryColor   string      `json:"primary_color"`
	SecondaryColor string      `json:"secondary_color"`
	BorderRadius   string      `json:"border_radius"`
	GlassIntensity float64     `json:"glass_intensity"` // 0 to 1
	FontFamily     ProfileFont `json:"font_family"`
	Mode           string      `json:"mode"` // "light" or "dark"
}

// MusicTrack references a track attachable to posts, reels and statuses
type MusicTrack struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Cover      string `json:"cover"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// User represents a Worldwide account. Several accounts can live on one
// device (the roster); the active one is tracked in the state store.
type User struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"not null" json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `gorm:"type:text" json:"bio"`
	Status      string `json:"status,omitempty"`

	StatusMusic *MusicTrack  `gorm:"type:text;serializer:json" json:"status_music,omitempty"`
	ProfileFont ProfileFont  `json:"profile_font,omitempty"`
	ThemeConfig *ThemeConfig `gorm:"type:text;serializer:json" json:"theme_config,omitempty"`

	PasswordHash *string `gorm:"type:text" json:"-"`

	// Social stats (denormalized counters, updated on write)
	FollowerCount  int `gorm:"default:0" json:"followers"`
	FollowingCount int `gorm:"default:0" json:"following"`
	PostCount      int `gorm:"default:0" json:"posts_count"`

	// ProfileHealth is the 0-100 completeness score shown on the dashboard
	ProfileHealth int `gorm:"default:0" json:"profile_health"`

	LastActiveAt *time.Time `json:"last_active_at"`
	IsOnline     bool       `gorm:"default:false" json:"is_online"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
