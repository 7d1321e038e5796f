package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/models"
	"github.com/worldwide-social/worldwide/internal/util"
)

// maxStoryImageSize caps story uploads at 10MB
const maxStoryImageSize = 10 * 1024 * 1024

// CreateStory publishes a story image that expires after 24 hours
func (h *Handlers) CreateStory(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "no_image_file",
			"message": "No image file provided in 'image' field",
		})
		return
	}

	if file.Size > maxStoryImageSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "file_too_large",
			"message": "Story image must be under 10MB",
		})
		return
	}

	if !util.IsValidImageFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_file_type",
			"message": "Story media must be an image",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		util.RespondInternalError(c, "Failed to open image file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		util.RespondInternalError(c, "Failed to read image file")
		return
	}

	if h.media == nil {
		util.RespondInternalError(c, "Media storage unavailable")
		return
	}

	saved, err := h.media.Save(c.Request.Context(), data, user.ID, file.Filename, "stories")
	if err != nil {
		util.RespondInternalError(c, "Failed to store image")
		return
	}

	now := h.clk.Now()
	story := models.Story{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ImageURL:  saved.URL,
		MediaKey:  saved.Key,
		ExpiresAt: now.Add(models.StoryTTL),
		CreatedAt: now,
	}
	if err := h.db.Create(&story).Error; err != nil {
		util.HandleDBError(c, err, "story")
		return
	}

	story.User = *user
	c.JSON(http.StatusCreated, story)
}

// GetStories returns all live stories grouped newest-first. Expired
// stories never appear even if cleanup has not swept them yet.
func (h *Handlers) GetStories(c *gin.Context) {
	var stories []models.Story
	err := h.db.Preload("User").
		Where("expires_at > ?", h.clk.Now().UTC()).
		Order("created_at DESC").
		Find(&stories).Error
	if err != nil {
		util.HandleDBError(c, err, "stories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// GetUserStories returns one user's live stories oldest-first, the order
// the story viewer plays them in.
func (h *Handlers) GetUserStories(c *gin.Context) {
	var stories []models.Story
	err := h.db.Preload("User").
		Where("user_id = ? AND expires_at > ?", c.Param("id"), h.clk.Now().UTC()).
		Order("created_at ASC").
		Find(&stories).Error
	if err != nil {
		util.HandleDBError(c, err, "stories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// ViewStory records a view. Each viewer counts once; the author viewing
// their own story does not count.
func (h *Handlers) ViewStory(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var story models.Story
	if err := h.db.First(&story, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "story")
		return
	}

	if story.Expired(h.clk.Now()) {
		util.RespondNotFound(c, "story")
		return
	}

	if story.UserID != userID {
		var existing models.StoryView
		err := h.db.First(&existing, "story_id = ? AND viewer_id = ?", story.ID, userID).Error
		if err != nil {
			view := models.StoryView{
				ID:       uuid.New().String(),
				StoryID:  story.ID,
				ViewerID: userID,
				ViewedAt: h.clk.Now(),
			}
			if err := h.db.Create(&view).Error; err != nil {
				util.HandleDBError(c, err, "story view")
				return
			}
			// UpdateColumn writes the new value back into story.ViewCount
			h.db.Model(&story).UpdateColumn("view_count", story.ViewCount+1)
		}
	}

	c.JSON(http.StatusOK, gin.H{"story_id": story.ID, "view_count": story.ViewCount})
}

// GetStoryViews lists who viewed a story. Only the author may ask.
func (h *Handlers) GetStoryViews(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var story models.Story
	if err := h.db.First(&story, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "story")
		return
	}
	if story.UserID != userID {
		util.RespondForbidden(c, "only the author can see story views")
		return
	}

	var views []models.StoryView
	if err := h.db.Where("story_id = ?", story.ID).Order("viewed_at ASC").Find(&views).Error; err != nil {
		util.HandleDBError(c, err, "story views")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"story_id":   story.ID,
		"view_count": story.ViewCount,
		"views":      views,
		"expires_at": story.ExpiresAt.Format(time.RFC3339),
	})
}
