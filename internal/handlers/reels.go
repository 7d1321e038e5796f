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
)

// GetReels returns the reel rail ordered by the caller's interest scores
func (h *Handlers) GetReels(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit := util.ParseInt(c.Query("limit"), defaultFeedLimit)
	offset := util.ParseInt(c.Query("offset"), 0)

	start := time.Now()

	var reels []models.Reel
	err := h.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reels).Error
	if err != nil {
		util.HandleDBError(c, err, "reels")
		return
	}

	ranked := interest.RankByInterest(h.scorer, userID, reels, func(r models.Reel) string {
		return r.Category
	})

	middleware.RecordFeedGeneration("reels", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"reels":  ranked,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateReel publishes a new reel
func (h *Handlers) CreateReel(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Caption  string             `json:"caption"`
		ThumbURL string             `json:"video_thumb" binding:"required"`
		Category string             `json:"category"`
		Music    *models.MusicTrack `json:"music,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	reel := models.Reel{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Caption:  req.Caption,
		ThumbURL: req.ThumbURL,
		Category: req.Category,
		Music:    req.Music,
	}
	if err := h.db.Create(&reel).Error; err != nil {
		util.HandleDBError(c, err, "reel")
		return
	}

	reel.User = *user
	c.JSON(http.StatusCreated, reel)
}

// LikeReel marks a reel liked and records the engagement. Repeat likes
// are no-ops.
func (h *Handlers) LikeReel(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var reel models.Reel
	if err := h.db.First(&reel, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "reel")
		return
	}

	if !reel.IsLiked {
		reel.IsLiked = true
		reel.LikeCount++
		if err := h.db.Save(&reel).Error; err != nil {
			util.HandleDBError(c, err, "reel")
			return
		}
		h.scorer.RecordEngagement(userID, reel.Category, interest.WeightLike)
		middleware.RecordEngagement("like", reel.Category)
	}

	c.JSON(http.StatusOK, gin.H{"liked": true, "likes": reel.LikeCount})
}

// UnlikeReel clears the like without touching interest scores
func (h *Handlers) UnlikeReel(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	var reel models.Reel
	if err := h.db.First(&reel, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "reel")
		return
	}

	if reel.IsLiked {
		reel.IsLiked = false
		if reel.LikeCount > 0 {
			reel.LikeCount--
		}
		if err := h.db.Save(&reel).Error; err != nil {
			util.HandleDBError(c, err, "reel")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"liked": false, "likes": reel.LikeCount})
}

// SaveReel bookmarks a reel and records the engagement
func (h *Handlers) SaveReel(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var reel models.Reel
	if err := h.db.First(&reel, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "reel")
		return
	}

	if !reel.IsSaved {
		reel.IsSaved = true
		if err := h.db.Save(&reel).Error; err != nil {
			util.HandleDBError(c, err, "reel")
			return
		}
		h.scorer.RecordEngagement(userID, reel.Category, interest.WeightSave)
		middleware.RecordEngagement("save", reel.Category)
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// ShareReel records a reel share, the heaviest engagement signal
func (h *Handlers) ShareReel(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var reel models.Reel
	if err := h.db.First(&reel, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "reel")
		return
	}

	h.scorer.RecordEngagement(userID, reel.Category, interest.WeightShareReel)
	middleware.RecordEngagement("share_reel", reel.Category)

	c.JSON(http.StatusOK, gin.H{"shared": reel.ID})
}

// CompleteReelView records a full 15-second watch of a reel
func (h *Handlers) CompleteReelView(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var reel models.Reel
	if err := h.db.First(&reel, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "reel")
		return
	}

	h.scorer.RecordEngagement(userID, reel.Category, interest.WeightViewComplete)
	middleware.RecordViewCompletion("reel")

	c.JSON(http.StatusOK, gin.H{"viewed": reel.ID})
}

// RecordSwipe counts a committed swipe transition for observability.
// Direction must be "up" or "down"; anything else is rejected.
func (h *Handlers) RecordSwipe(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	var req struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	middleware.RecordSwipeTransition(req.Direction)
	c.JSON(http.StatusOK, gin.H{"recorded": req.Direction})
}
