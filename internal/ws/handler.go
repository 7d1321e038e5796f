package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles WebSocket upgrade requests and wires the chat and live
// session message flows.
type Handler struct {
	hub       *Hub
	db        *gorm.DB
	jwtSecret []byte
	live      *LiveManager
}

// NewHandler creates a realtime handler
func NewHandler(hub *Hub, db *gorm.DB, jwtSecret []byte) *Handler {
	return &Handler{
		hub:       hub,
		db:        db,
		jwtSecret: jwtSecret,
		live:      NewLiveManager(hub),
	}
}

// Live returns the live session manager
func (h *Handler) Live() *LiveManager {
	return h.live
}

// HandleWebSocket handles upgrade requests. Authentication is a JWT in
// the token query param or the Authorization header.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	user, err := h.authenticateRequest(c)
	if err != nil {
		logger.Log.Warn("Realtime auth failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "authentication_failed",
			"message": err.Error(),
		})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
		CompressionMode:    websocket.CompressionContextTakeover,
	})
	if err != nil {
		logger.Log.Error("Realtime upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, user.ID, user.Username)
	client.RemoteAddr = c.ClientIP()
	client.UserAgent = c.GetHeader("User-Agent")

	h.hub.Register(client)
	h.hub.Broadcast(NewMessage(MessageTypeUserOnline, PresencePayload{
		UserID:    user.ID,
		Username:  user.Username,
		Status:    "online",
		Timestamp: time.Now().UnixMilli(),
	}))

	client.Send(NewMessage(MessageTypeSystem, SystemPayload{
		Event:   "connected",
		Message: "Welcome to Worldwide!",
		Data: map[string]interface{}{
			"user_id":     user.ID,
			"username":    user.Username,
			"server_time": time.Now().UTC().UnixMilli(),
			"session_id":  fmt.Sprintf("%p", client),
		},
	}))

	go client.WritePump()
	client.ReadPump() // Blocks until the client disconnects

	h.live.OnClientDisconnect(client)
	if h.hub.UserConnectionCount(user.ID) == 0 {
		h.hub.Broadcast(NewMessage(MessageTypeUserOffline, PresencePayload{
			UserID:    user.ID,
			Status:    "offline",
			Timestamp: time.Now().UnixMilli(),
		}))
	}
}

// authenticateRequest extracts and validates the JWT token
func (h *Handler) authenticateRequest(c *gin.Context) (*models.User, error) {
	tokenString := c.Query("token")

	if auth := c.GetHeader("Authorization"); auth != "" {
		tokenString = strings.TrimPrefix(auth, "Bearer ")
	}
	if tokenString == "" {
		return nil, errors.New("no authentication token provided")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("token missing expiration")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, errors.New("token expired")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid user_id in token")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &user, nil
}

// RegisterDefaultHandlers wires the chat and live session message flows
func (h *Handler) RegisterDefaultHandlers() {
	h.hub.RegisterHandler(MessageTypeChatMessage, h.handleChatMessage)
	h.hub.RegisterHandler(MessageTypeMessageRead, h.handleMessageRead)
	h.hub.RegisterHandler(MessageTypeUserTyping, h.relayToPeer(MessageTypeUserTyping))
	h.hub.RegisterHandler(MessageTypeUserStopTyping, h.relayToPeer(MessageTypeUserStopTyping))
	h.live.Start()
}

// handleChatMessage persists a direct message and delivers it to both
// sides of the conversation
func (h *Handler) handleChatMessage(client *Client, msg *Message) error {
	var payload ChatMessagePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	if payload.RecipientID == "" {
		return errors.New("chat_message requires recipient_id")
	}

	mediaType := payload.MediaType
	if mediaType == "" {
		mediaType = models.MessageText
	}

	stored := models.ChatMessage{
		ID:          uuid.New().String(),
		SenderID:    client.UserID,
		RecipientID: payload.RecipientID,
		MediaType:   mediaType,
		Text:        payload.Text,
		MediaURL:    payload.MediaURL,

		SharedContentID:     payload.SharedContentID,
		SharedContentThumb:  payload.SharedContentThumb,
		SharedContentAuthor: payload.SharedContentAuthor,

		Location:  payload.Location,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.db.Create(&stored).Error; err != nil {
		return fmt.Errorf("failed to store chat message: %w", err)
	}

	out := NewMessage(MessageTypeChatMessage, ChatMessagePayload{
		MessageID:   stored.ID,
		SenderID:    client.UserID,
		RecipientID: payload.RecipientID,
		MediaType:   mediaType,
		Text:        payload.Text,
		MediaURL:    payload.MediaURL,

		SharedContentID:     payload.SharedContentID,
		SharedContentThumb:  payload.SharedContentThumb,
		SharedContentAuthor: payload.SharedContentAuthor,

		Location:  payload.Location,
		CreatedAt: stored.CreatedAt.UnixMilli(),
	})
	if msg.ID != "" {
		out.ReplyTo = msg.ID
	}

	h.hub.SendToUser(payload.RecipientID, out)
	// Echo back so the sender's other devices stay in sync
	h.hub.SendToUser(client.UserID, out)
	return nil
}

// handleMessageRead relays a read receipt to the peer. Receipts are
// ephemeral; nothing is stored.
func (h *Handler) handleMessageRead(client *Client, msg *Message) error {
	var payload MessageReadPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	if payload.PeerID == "" {
		return errors.New("message_read requires peer_id")
	}

	h.hub.SendToUser(payload.PeerID, NewMessage(MessageTypeMessageRead, MessageReadPayload{
		PeerID:    client.UserID,
		ReaderID:  client.UserID,
		Timestamp: time.Now().UnixMilli(),
	}))
	return nil
}

// relayToPeer forwards an ephemeral event to the named peer without
// storing anything
func (h *Handler) relayToPeer(msgType string) MessageHandler {
	return func(client *Client, msg *Message) error {
		var payload TypingPayload
		if err := msg.ParsePayload(&payload); err != nil {
			return err
		}
		if payload.PeerID == "" {
			return fmt.Errorf("%s requires peer_id", msgType)
		}

		h.hub.SendToUser(payload.PeerID, NewMessage(msgType, TypingPayload{
			PeerID:    client.UserID,
			UserID:    client.UserID,
			Username:  client.Username,
			Timestamp: time.Now().UnixMilli(),
		}))
		return nil
	}
}

// HandleMetrics returns realtime metrics for monitoring
func (h *Handler) HandleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"websocket":     h.hub.GetMetrics(),
		"online_users":  h.hub.OnlineUsers(),
		"live_sessions": h.live.SessionCount(),
		"timestamp":     time.Now().UTC(),
	})
}

// HandleOnlineStatus checks if specific users are online
func (h *Handler) HandleOnlineStatus(c *gin.Context) {
	var req struct {
		UserIDs []string `json:"user_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statuses := make(map[string]bool)
	for _, userID := range req.UserIDs {
		statuses[userID] = h.hub.IsUserOnline(userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"statuses":  statuses,
		"timestamp": time.Now().UTC(),
	})
}

// NotifyNotification pushes a notification to a user's connections
func (h *Handler) NotifyNotification(userID string, payload *NotificationPayload) {
	h.hub.SendToUser(userID, NewMessage(MessageTypeNotification, payload))
}

// Shutdown gracefully shuts down the realtime handler
func (h *Handler) Shutdown(ctx context.Context) error {
	return h.hub.Shutdown(ctx)
}

// GetHub returns the hub for external access
func (h *Handler) GetHub() *Hub {
	return h.hub
}
