package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/worldwide-social/worldwide/internal/models"
)

// FlexibleTime handles both Unix millisecond timestamps and RFC3339 strings
type FlexibleTime struct {
	time.Time
}

// UnmarshalJSON implements custom unmarshaling for timestamps
func (ft *FlexibleTime) UnmarshalJSON(b []byte) error {
	var ms int64
	if err := json.Unmarshal(b, &ms); err == nil {
		ft.Time = time.UnixMilli(ms)
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("timestamp must be Unix milliseconds (integer) or RFC3339 string")
	}

	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return err
	}
	ft.Time = t
	return nil
}

// MarshalJSON implements custom marshaling (always output as RFC3339)
func (ft FlexibleTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ft.Time)
}

// Message types for realtime communication
const (
	// System messages
	MessageTypeSystem = "system"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"
	MessageTypeError  = "error"
	MessageTypeAuth   = "auth"

	// Chat messages
	MessageTypeChatMessage    = "chat_message"
	MessageTypeMessageRead    = "message_read"
	MessageTypeUserTyping     = "user_typing"
	MessageTypeUserStopTyping = "user_stop_typing"

	// Live session messages
	MessageTypeLiveJoin     = "live_join"
	MessageTypeLiveLeave    = "live_leave"
	MessageTypeLiveSpeaking = "live_speaking"
	MessageTypeLiveReaction = "live_reaction"
	MessageTypeLiveRoster   = "live_roster"

	// Presence messages
	MessageTypePresence    = "presence"
	MessageTypeUserOnline  = "user_online"
	MessageTypeUserOffline = "user_offline"

	// Feed events
	MessageTypeNewPost      = "new_post"
	MessageTypePostLiked    = "post_liked"
	MessageTypeNewComment   = "new_comment"
	MessageTypeNotification = "notification"
)

// Message represents a realtime message
type Message struct {
	// Type identifies the message type for routing
	Type string `json:"type"`

	// Payload contains the message-specific data
	Payload interface{} `json:"payload,omitempty"`

	// ID is a unique message identifier for acknowledgment
	ID string `json:"id,omitempty"`

	// ReplyTo references the original message ID for responses
	ReplyTo string `json:"reply_to,omitempty"`

	// Timestamp when the message was created (accepts Unix ms or RFC3339)
	Timestamp FlexibleTime `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType string, payload interface{}) *Message {
	return &Message{
		Type:      msgType,
		Payload:   payload,
		Timestamp: FlexibleTime{Time: time.Now().UTC()},
	}
}

// NewReply creates a reply message to an original message
func NewReply(original *Message, msgType string, payload interface{}) *Message {
	return &Message{
		Type:      msgType,
		ReplyTo:   original.ID,
		Payload:   payload,
		Timestamp: FlexibleTime{Time: time.Now().UTC()},
	}
}

// NewErrorMessage creates an error message
func NewErrorMessage(code string, message string) *Message {
	return &Message{
		Type: MessageTypeError,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
		Timestamp: FlexibleTime{Time: time.Now().UTC()},
	}
}

// ParsePayload unmarshals the payload into a specific type
func (m *Message) ParsePayload(target interface{}) error {
	if m.Payload == nil {
		return nil
	}

	// Re-marshal and unmarshal to properly type the payload
	data, err := json.Marshal(m.Payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// ErrorPayload represents an error message payload
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PingPayload represents a ping message payload
type PingPayload struct {
	ClientTime int64 `json:"client_time"`
}

// PongPayload represents a pong message payload
type PongPayload struct {
	ClientTime int64 `json:"client_time"`
	ServerTime int64 `json:"server_time"`
	Latency    int64 `json:"latency_ms"`
}

// AuthPayload represents authentication message payload
type AuthPayload struct {
	Token  string `json:"token,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ChatMessagePayload carries one direct message. MediaType matches the
// stored message media types (text, image, audio, post_share, location).
type ChatMessagePayload struct {
	MessageID   string `json:"message_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	MediaType   string `json:"media_type"`
	Text        string `json:"text,omitempty"`
	MediaURL    string `json:"media_url,omitempty"`

	SharedContentID     string `json:"shared_content_id,omitempty"`
	SharedContentThumb  string `json:"shared_content_thumb,omitempty"`
	SharedContentAuthor string `json:"shared_content_author,omitempty"`

	Location *models.LocationData `json:"location_data,omitempty"`

	CreatedAt int64 `json:"created_at"`
}

// MessageReadPayload acknowledges that messages up to a point were seen
type MessageReadPayload struct {
	PeerID    string `json:"peer_id"`
	ReaderID  string `json:"reader_id"`
	Timestamp int64  `json:"timestamp"`
}

// TypingPayload indicates a user is typing in a conversation
type TypingPayload struct {
	PeerID    string `json:"peer_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
}

// LiveSessionPayload carries join/leave events for a live room
type LiveSessionPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// SpeakingPayload toggles a participant's speaking indicator
type SpeakingPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Speaking  bool   `json:"speaking"`
	Timestamp int64  `json:"timestamp"`
}

// ReactionPayload is an ephemeral emoji reaction in a live room
type ReactionPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
	Timestamp int64  `json:"timestamp"`
}

// RosterPayload is the current participant list for a live room
type RosterPayload struct {
	SessionID    string               `json:"session_id"`
	Participants []LiveSessionPayload `json:"participants"`
	Timestamp    int64                `json:"timestamp"`
}

// PresencePayload represents a presence update
type PresencePayload struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Status    string `json:"status"` // "online", "offline", "live"
	Timestamp int64  `json:"timestamp"`
}

// NotificationPayload represents a pushed notification
type NotificationPayload struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"notification_type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt int64                  `json:"created_at"`
}

// SystemPayload represents system event payloads
type SystemPayload struct {
	Event   string                 `json:"event"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
