package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/interest"
	"github.com/worldwide-social/worldwide/internal/middleware"
	"github.com/worldwide-social/worldwide/internal/models"
	"github.com/worldwide-social/worldwide/internal/util"
	"github.com/worldwide-social/worldwide/internal/ws"
)

const defaultFeedLimit = 20

// GetFeed returns the post feed ordered by the caller's interest scores.
// Items in categories the user engages with rank higher; ties keep their
// recency order.
func (h *Handlers) GetFeed(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit := util.ParseInt(c.Query("limit"), defaultFeedLimit)
	offset := util.ParseInt(c.Query("offset"), 0)

	start := time.Now()

	var posts []models.Post
	err := h.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		util.HandleDBError(c, err, "feed")
		return
	}

	ranked := interest.RankByInterest(h.scorer, userID, posts, func(p models.Post) string {
		return p.Category
	})

	middleware.RecordFeedGeneration("posts", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"posts":  ranked,
		"limit":  limit,
		"offset": offset,
	})
}

// CreatePost publishes a new post from the authenticated account
func (h *Handlers) CreatePost(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Content  string             `json:"content" binding:"required"`
		ImageURL string             `json:"image,omitempty"`
		VideoURL string             `json:"video,omitempty"`
		Category string             `json:"category"`
		Music    *models.MusicTrack `json:"music,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	post := models.Post{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
		Category: req.Category,
		Music:    req.Music,
	}

	if err := h.db.Create(&post).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	h.db.Model(user).UpdateColumn("post_count", user.PostCount+1)
	post.User = *user

	if h.wsHandler != nil {
		h.wsHandler.GetHub().Broadcast(ws.NewMessage(ws.MessageTypeNewPost, post))
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post with its author
func (h *Handlers) GetPost(c *gin.Context) {
	var post models.Post
	err := h.db.Preload("User").First(&post, "id = ?", c.Param("id")).Error
	if err != nil {
		util.HandleDBError(c, err, "post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes a post owned by the caller
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}
	if post.UserID != userID {
		util.RespondForbidden(c, "not your post")
		return
	}

	if err := h.db.Delete(&post).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": post.ID})
}
