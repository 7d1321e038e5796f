package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/interest"
	"github.com/worldwide-social/worldwide/internal/middleware"
	"github.com/worldwide-social/worldwide/internal/models"
	"github.com/worldwide-social/worldwide/internal/util"
)

// LikePost marks a post liked and records the engagement. Liking an
// already-liked post is a no-op so repeat taps never double-score.
func (h *Handlers) LikePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	if !post.IsLiked {
		post.IsLiked = true
		post.LikeCount++
		if err := h.db.Save(&post).Error; err != nil {
			util.HandleDBError(c, err, "post")
			return
		}
		h.scorer.RecordEngagement(userID, post.Category, interest.WeightLike)
		middleware.RecordEngagement("like", post.Category)
	}

	c.JSON(http.StatusOK, gin.H{"liked": true, "likes": post.LikeCount})
}

// UnlikePost clears the like. The interest score earned when liking
// stays: scores never decrease.
func (h *Handlers) UnlikePost(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	if post.IsLiked {
		post.IsLiked = false
		if post.LikeCount > 0 {
			post.LikeCount--
		}
		if err := h.db.Save(&post).Error; err != nil {
			util.HandleDBError(c, err, "post")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"liked": false, "likes": post.LikeCount})
}

// SavePost bookmarks a post and records the engagement
func (h *Handlers) SavePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	if !post.IsSaved {
		post.IsSaved = true
		if err := h.db.Save(&post).Error; err != nil {
			util.HandleDBError(c, err, "post")
			return
		}
		h.scorer.RecordEngagement(userID, post.Category, interest.WeightSave)
		middleware.RecordEngagement("save", post.Category)
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// UnsavePost removes the bookmark
func (h *Handlers) UnsavePost(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	if post.IsSaved {
		post.IsSaved = false
		if err := h.db.Save(&post).Error; err != nil {
			util.HandleDBError(c, err, "post")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"saved": false})
}

// SharePost records a share engagement. Shares are the heaviest signal
// and are recorded on every call: each share is a distinct engagement.
func (h *Handlers) SharePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	h.scorer.RecordEngagement(userID, post.Category, interest.WeightSharePost)
	middleware.RecordEngagement("share_post", post.Category)

	c.JSON(http.StatusOK, gin.H{"shared": post.ID})
}

// CompletePostView records that the caller watched a post's media to the
// end. Completion is the lightest engagement signal.
func (h *Handlers) CompletePostView(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	h.scorer.RecordEngagement(userID, post.Category, interest.WeightViewComplete)
	middleware.RecordViewCompletion("post")

	c.JSON(http.StatusOK, gin.H{"viewed": post.ID})
}

// CreateComment adds a comment (optionally a reply) to a post and
// records the engagement.
func (h *Handlers) CreateComment(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Text     string  `json:"text" binding:"required"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var post models.Post
	if err := h.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "post")
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := h.db.First(&parent, "id = ? AND post_id = ?", *req.ParentID, post.ID).Error; err != nil {
			util.RespondBadRequest(c, "parent comment not found on this post")
			return
		}
	}

	comment := models.Comment{
		ID:       uuid.New().String(),
		PostID:   post.ID,
		UserID:   user.ID,
		ParentID: req.ParentID,
		Text:     req.Text,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		util.HandleDBError(c, err, "comment")
		return
	}

	h.db.Model(&post).UpdateColumn("comment_count", post.CommentCount+1)
	comment.User = *user

	h.scorer.RecordEngagement(user.ID, post.Category, interest.WeightComment)
	middleware.RecordEngagement("comment", post.Category)

	c.JSON(http.StatusCreated, comment)
}

// GetComments returns a post's comment tree: top-level comments in
// order, each with its replies nested one level deep.
func (h *Handlers) GetComments(c *gin.Context) {
	var comments []models.Comment
	err := h.db.Preload("User").
		Where("post_id = ?", c.Param("id")).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		util.HandleDBError(c, err, "comments")
		return
	}

	arena := models.NewCommentArena(comments)

	type threadedComment struct {
		models.Comment
		Replies []*models.Comment `json:"replies,omitempty"`
	}

	out := make([]threadedComment, 0, len(arena.Roots))
	for _, root := range arena.Roots {
		out = append(out, threadedComment{
			Comment: *root,
			Replies: arena.Replies(root.ID),
		})
	}

	c.JSON(http.StatusOK, gin.H{"comments": out, "total": len(comments)})
}

// LikeComment toggles a like on a single comment
func (h *Handlers) LikeComment(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		util.HandleDBError(c, err, "comment")
		return
	}

	if comment.IsLiked {
		comment.IsLiked = false
		if comment.LikeCount > 0 {
			comment.LikeCount--
		}
	} else {
		comment.IsLiked = true
		comment.LikeCount++
	}

	if err := h.db.Save(&comment).Error; err != nil {
		util.HandleDBError(c, err, "comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": comment.IsLiked, "likes": comment.LikeCount})
}
