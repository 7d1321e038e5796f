package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/worldwide-social/worldwide/internal/auth"
	"github.com/worldwide-social/worldwide/internal/clock"
	"github.com/worldwide-social/worldwide/internal/config"
	"github.com/worldwide-social/worldwide/internal/database"
	"github.com/worldwide-social/worldwide/internal/genai"
	"github.com/worldwide-social/worldwide/internal/handlers"
	"github.com/worldwide-social/worldwide/internal/interest"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/metrics"
	"github.com/worldwide-social/worldwide/internal/storage"
	"github.com/worldwide-social/worldwide/internal/store"
	"github.com/worldwide-social/worldwide/internal/stories"
	"github.com/worldwide-social/worldwide/internal/ws"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logLevel := "info"
	if cfg.IsDevelopment() {
		logLevel = "debug"
	}
	if err := logger.Initialize(logLevel, cfg.LogPath); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("Worldwide server starting", zap.String("environment", cfg.Environment))

	metrics.Initialize()

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}
	db := database.DB

	media, err := storage.NewLocalStore(cfg.MediaRoot, cfg.MediaBaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to initialize media storage", zap.Error(err))
	}

	state := store.New(db)
	scorer := interest.NewScorer(state)
	authSvc := auth.NewService(db, cfg.JWTSecret)

	hub := ws.NewHub()
	wsHandler := ws.NewHandler(hub, db, cfg.JWTSecret)
	wsHandler.RegisterDefaultHandlers()
	go hub.Run()

	cleanup := stories.NewCleanupService(db, media, clock.New(), time.Hour)
	cleanup.Start()
	defer cleanup.Stop()

	h := handlers.NewHandlers(db, authSvc, scorer, state)
	h.SetMediaStore(media)
	h.SetWebSocketHandler(wsHandler)
	h.SetAIClient(genai.New())
	if cfg.GenAIKey == "" {
		logger.Log.Warn("GENAI_API_KEY not set, generative tools will answer KEY_MISSING")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/ws"})))

	r.Static(cfg.MediaBaseURL, cfg.MediaRoot)

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wsHandler.Shutdown(ctx); err != nil {
		logger.Log.Warn("WebSocket shutdown", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
