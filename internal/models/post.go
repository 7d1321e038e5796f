package models

import (
	"time"

	"gorm.io/gorm"
)

// Content categories used for interest scoring
const (
	CategoryTech      = "Tech"
	CategoryArt       = "Art"
	CategoryMusic     = "Music"
	CategoryLifestyle = "Lifestyle"
	CategoryNature    = "Nature"
	CategoryNeural    = "Neural"
	CategoryFuture    = "Future"
)

// Categories lists every known content category
var Categories = []string{
	CategoryTech,
	CategoryArt,
	CategoryMusic,
	CategoryLifestyle,
	CategoryNature,
	CategoryNeural,
	CategoryFuture,
}

// Post is a feed item: text content with optional image/video media, a
// music reference and an interest category. Engagement counters are
// mutated in place when users like/save/comment.
type Post struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Content  string `gorm:"type:text" json:"content"`
	ImageURL string `json:"image,omitempty"`
	VideoURL string `json:"video,omitempty"`

	Music    *MusicTrack `gorm:"type:text;serializer:json" json:"music,omitempty"`
	Category string      `gorm:"index" json:"category,omitempty"`

	LikeCount    int  `gorm:"default:0" json:"likes"`
	CommentCount int  `gorm:"default:0" json:"comments"`
	IsLiked      bool `gorm:"default:false" json:"is_liked"`
	IsSaved      bool `gorm:"default:false" json:"is_saved"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Reel is a short-form item in the vertical-swipe browsing surface. The
// media reference is a thumbnail standing in for the clip.
type Reel struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Caption  string      `gorm:"type:text" json:"caption"`
	ThumbURL string      `json:"video_thumb"`
	Music    *MusicTrack `gorm:"type:text;serializer:json" json:"music,omitempty"`
	Category string      `gorm:"index" json:"category,omitempty"`

	LikeCount    int  `gorm:"default:0" json:"likes_count"`
	CommentCount int  `gorm:"default:0" json:"comments_count"`
	IsLiked      bool `gorm:"default:false" json:"is_liked"`
	IsSaved      bool `gorm:"default:false" json:"is_saved"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Notification is an activity item for the bell tab
type Notification struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"` // recipient

	Type        string `gorm:"not null" json:"type"` // like, follow, comment, mention, ai
	ActorID     string `json:"actor_id"`
	ActorName   string `json:"actor_name"`
	ActorAvatar string `json:"actor_avatar"`
	Content     string `gorm:"type:text" json:"content"`
	TargetID    string `json:"target_id,omitempty"`
	Read        bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
