package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/worldwide-social/worldwide/internal/middleware"
)

// RegisterRoutes mounts the full API surface on the router
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "worldwide-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.Use(middleware.NewRateLimiter(middleware.AuthRateLimitConfig()))
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", h.authSvc.Middleware(), h.Me)
		}

		accounts := api.Group("/accounts")
		{
			accounts.Use(h.authSvc.Middleware())
			accounts.GET("", h.GetAccounts)
			accounts.POST("/switch", h.SwitchAccount)
		}

		feed := api.Group("/feed")
		{
			feed.Use(h.authSvc.Middleware())
			feed.GET("", h.GetFeed)
		}

		posts := api.Group("/posts")
		{
			posts.Use(h.authSvc.Middleware())
			posts.POST("", h.CreatePost)
			posts.GET("/:id", h.GetPost)
			posts.DELETE("/:id", h.DeletePost)
			posts.POST("/:id/like", h.LikePost)
			posts.DELETE("/:id/like", h.UnlikePost)
			posts.POST("/:id/save", h.SavePost)
			posts.DELETE("/:id/save", h.UnsavePost)
			posts.POST("/:id/share", h.SharePost)
			posts.POST("/:id/viewed", h.CompletePostView)
			posts.POST("/:id/comments", h.CreateComment)
			posts.GET("/:id/comments", h.GetComments)
		}

		comments := api.Group("/comments")
		{
			comments.Use(h.authSvc.Middleware())
			comments.POST("/:id/like", h.LikeComment)
		}

		reels := api.Group("/reels")
		{
			reels.Use(h.authSvc.Middleware())
			reels.GET("", h.GetReels)
			reels.POST("", h.CreateReel)
			reels.POST("/:id/like", h.LikeReel)
			reels.DELETE("/:id/like", h.UnlikeReel)
			reels.POST("/:id/save", h.SaveReel)
			reels.POST("/:id/share", h.ShareReel)
			reels.POST("/:id/viewed", h.CompleteReelView)
			reels.POST("/swipe", h.RecordSwipe)
		}

		stories := api.Group("/stories")
		{
			stories.Use(h.authSvc.Middleware())
			stories.POST("", middleware.NewRateLimiter(middleware.UploadRateLimitConfig()), h.CreateStory)
			stories.GET("", h.GetStories)
			stories.POST("/:id/view", h.ViewStory)
			stories.GET("/:id/views", h.GetStoryViews)
		}

		messages := api.Group("/messages")
		{
			messages.Use(h.authSvc.Middleware())
			messages.GET("", h.GetConversations)
			messages.GET("/:id", h.GetConversation)
			messages.POST("/:id/like", h.LikeMessage)
			messages.PUT("/:id", h.EditMessage)
			messages.DELETE("/:id", h.DeleteMessage)
		}

		users := api.Group("/users")
		{
			users.Use(h.authSvc.Middleware())
			users.PUT("/me", h.UpdateMe)
			users.GET("/:id", h.GetUser)
			users.GET("/:id/posts", h.GetUserPosts)
			users.GET("/:id/stories", h.GetUserStories)
		}

		interests := api.Group("/interests")
		{
			interests.Use(h.authSvc.Middleware())
			interests.GET("", h.GetInterests)
			interests.DELETE("", h.ClearInterests)
		}

		notifications := api.Group("/notifications")
		{
			notifications.Use(h.authSvc.Middleware())
			notifications.GET("", h.GetNotifications)
			notifications.POST("/read", h.MarkNotificationsRead)
		}

		ai := api.Group("/ai")
		{
			ai.Use(h.authSvc.Middleware())
			ai.Use(middleware.NewRateLimiter(middleware.GenerationRateLimitConfig()))
			ai.POST("/image", h.GenerateImage)
			ai.POST("/video", h.GenerateVideo)
			ai.GET("/video/:id", h.GetVideoJob)
			ai.POST("/speech", h.GenerateSpeech)
			ai.POST("/chat", h.Chat)
		}

		if h.wsHandler != nil {
			wsGroup := api.Group("/ws")
			{
				wsGroup.GET("", h.wsHandler.HandleWebSocket)
				wsGroup.GET("/connect", h.wsHandler.HandleWebSocket)
				wsGroup.GET("/metrics", h.authSvc.Middleware(), h.wsHandler.HandleMetrics)
				wsGroup.POST("/online", h.authSvc.Middleware(), h.wsHandler.HandleOnlineStatus)
			}
		}
	}
}
