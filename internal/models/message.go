package models

import (
	"time"

	"gorm.io/gorm"
)

// Message media types
const (
	MessageText         = "text"
	MessageImage        = "image"
	MessageVideo        = "video"
	MessageAudio        = "audio"
	MessagePostShare    = "post_share"
	MessageReelShare    = "reel_share"
	MessageLocation     = "location"
	MessageLiveLocation = "live_location"
)

// LocationData is an attached map position for location messages
type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	IsSharing bool    `json:"is_sharing"`
}

// ChatMessage is a direct message between two users. Shared posts and
// reels travel as a content id plus a denormalized thumbnail/author pair
// so the bubble renders without an extra lookup.
type ChatMessage struct {
	ID          string `gorm:"primaryKey" json:"id"`
	SenderID    string `gorm:"not null;index" json:"sender_id"`
	RecipientID string `gorm:"not null;index" json:"recipient_id"`

	Text      string `gorm:"type:text" json:"text,omitempty"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `gorm:"not null;default:text" json:"media_type"`

	SharedContentID     string `json:"shared_content_id,omitempty"`
	SharedContentThumb  string `json:"shared_content_thumb,omitempty"`
	SharedContentAuthor string `json:"shared_content_author,omitempty"`

	Location *LocationData `gorm:"type:text;serializer:json" json:"location_data,omitempty"`

	IsLiked  bool `gorm:"default:false" json:"is_liked"`
	IsEdited bool `gorm:"default:false" json:"is_edited"`

	CreatedAt time.Time      `json:"timestamp"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
