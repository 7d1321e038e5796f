package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/worldwide-social/worldwide/internal/models"
	"github.com/worldwide-social/worldwide/internal/util"
)

// GetUser returns a public profile
func (h *Handlers) GetUser(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserPosts returns a user's posts, newest first
func (h *Handlers) GetUserPosts(c *gin.Context) {
	var posts []models.Post
	err := h.db.Preload("User").
		Where("user_id = ?", c.Param("id")).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		util.HandleDBError(c, err, "posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// UpdateMe updates the caller's profile. Theme, status music and fonts
// are part of the profile surface and round-trip as JSON columns.
func (h *Handlers) UpdateMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		DisplayName *string             `json:"display_name"`
		Bio         *string             `json:"bio"`
		AvatarURL   *string             `json:"avatar_url"`
		Status      *string             `json:"status"`
		StatusMusic *models.MusicTrack  `json:"status_music"`
		ProfileFont *models.ProfileFont `json:"profile_font"`
		ThemeConfig *models.ThemeConfig `json:"theme_config"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.StatusMusic != nil {
		user.StatusMusic = req.StatusMusic
	}
	if req.ProfileFont != nil {
		user.ProfileFont = *req.ProfileFont
	}
	if req.ThemeConfig != nil {
		user.ThemeConfig = req.ThemeConfig
	}

	user.ProfileHealth = profileHealth(user)

	if err := h.db.Save(user).Error; err != nil {
		util.HandleDBError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// profileHealth scores profile completeness 0-100: 20 points each for
// avatar, bio, status, theme and status music.
func profileHealth(u *models.User) int {
	score := 0
	if u.AvatarURL != "" {
		score += 20
	}
	if u.Bio != "" {
		score += 20
	}
	if u.Status != "" {
		score += 20
	}
	if u.ThemeConfig != nil {
		score += 20
	}
	if u.StatusMusic != nil {
		score += 20
	}
	return score
}

// GetInterests returns the caller's category score map
func (h *Handlers) GetInterests(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   userID,
		"interests": h.scorer.Scores(userID),
	})
}

// ClearInterests resets the caller's interest map to empty
func (h *Handlers) ClearInterests(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.state.ClearInterests(userID); err != nil {
		util.RespondInternalError(c, "Failed to clear interests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": userID})
}

// GetNotifications lists the caller's notifications, newest first
func (h *Handlers) GetNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var notifications []models.Notification
	err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(util.ParseInt(c.Query("limit"), 50)).
		Find(&notifications).Error
	if err != nil {
		util.HandleDBError(c, err, "notifications")
		return
	}

	var unread int64
	h.db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&unread)

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread": unread})
}

// MarkNotificationsRead marks all of the caller's notifications read
func (h *Handlers) MarkNotificationsRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		util.HandleDBError(c, err, "notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": true})
}
