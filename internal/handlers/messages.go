package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/worldwide-social/worldwide/internal/models"
	"github.com/worldwide-social/worldwide/internal/util"
)

// GetConversation returns the message history between the caller and a
// peer, oldest first. Live delivery happens over the WebSocket; this is
// the backfill when a thread opens.
func (h *Handlers) GetConversation(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	peerID := c.Param("id")

	limit := util.ParseInt(c.Query("limit"), 50)

	var messages []models.ChatMessage
	err := h.db.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		userID, peerID, peerID, userID,
	).Order("created_at ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		util.HandleDBError(c, err, "messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "peer_id": peerID})
}

// GetConversations lists the caller's threads: for each peer, the most
// recent message.
func (h *Handlers) GetConversations(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var messages []models.ChatMessage
	err := h.db.Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		util.HandleDBError(c, err, "conversations")
		return
	}

	latest := make(map[string]models.ChatMessage)
	order := make([]string, 0)
	for _, m := range messages {
		peer := m.SenderID
		if peer == userID {
			peer = m.RecipientID
		}
		if _, seen := latest[peer]; !seen {
			latest[peer] = m
			order = append(order, peer)
		}
	}

	type conversation struct {
		PeerID      string             `json:"peer_id"`
		LastMessage models.ChatMessage `json:"last_message"`
	}
	out := make([]conversation, 0, len(order))
	for _, peer := range order {
		out = append(out, conversation{PeerID: peer, LastMessage: latest[peer]})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

// LikeMessage toggles the heart on a chat message. Either participant
// can like; nobody else can see the thread.
func (h *Handlers) LikeMessage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var msg models.ChatMessage
	if err := h.db.First(&msg, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "message")
		return
	}
	if msg.SenderID != userID && msg.RecipientID != userID {
		util.RespondForbidden(c, "not a participant")
		return
	}

	msg.IsLiked = !msg.IsLiked
	if err := h.db.Save(&msg).Error; err != nil {
		util.HandleDBError(c, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": msg.ID, "is_liked": msg.IsLiked})
}

// EditMessage updates a text message's body. Only the sender may edit,
// and only text messages are editable.
func (h *Handlers) EditMessage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var msg models.ChatMessage
	if err := h.db.First(&msg, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "message")
		return
	}
	if msg.SenderID != userID {
		util.RespondForbidden(c, "not your message")
		return
	}
	if msg.MediaType != models.MessageText {
		util.RespondBadRequest(c, "only text messages can be edited")
		return
	}

	msg.Text = req.Text
	msg.IsEdited = true
	if err := h.db.Save(&msg).Error; err != nil {
		util.HandleDBError(c, err, "message")
		return
	}

	c.JSON(http.StatusOK, msg)
}

// DeleteMessage soft-deletes a message the caller sent
func (h *Handlers) DeleteMessage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var msg models.ChatMessage
	if err := h.db.First(&msg, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "message")
		return
	}
	if msg.SenderID != userID {
		util.RespondForbidden(c, "not your message")
		return
	}

	if err := h.db.Delete(&msg).Error; err != nil {
		util.HandleDBError(c, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": msg.ID})
}
