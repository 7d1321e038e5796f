// Package handlers wires the HTTP API: feed and reels ranked by interest
// scores, stories, chat history, accounts and the generative tools.
package handlers

import (
	"github.com/worldwide-social/worldwide/internal/auth"
	"github.com/worldwide-social/worldwide/internal/clock"
	"github.com/worldwide-social/worldwide/internal/genai"
	"github.com/worldwide-social/worldwide/internal/interest"
	"github.com/worldwide-social/worldwide/internal/storage"
	"github.com/worldwide-social/worldwide/internal/store"
	"github.com/worldwide-social/worldwide/internal/ws"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	db        *gorm.DB
	authSvc   *auth.Service
	scorer    *interest.Scorer
	state     *store.Store
	media     storage.MediaStore
	ai        *genai.Client
	wsHandler *ws.Handler
	clk       clock.Clock

	videoJobs *videoJobRegistry
}

// NewHandlers creates a new handlers instance
func NewHandlers(db *gorm.DB, authSvc *auth.Service, scorer *interest.Scorer, state *store.Store) *Handlers {
	return &Handlers{
		db:        db,
		authSvc:   authSvc,
		scorer:    scorer,
		state:     state,
		clk:       clock.New(),
		videoJobs: newVideoJobRegistry(),
	}
}

// SetMediaStore sets the media storage backend for uploads
func (h *Handlers) SetMediaStore(media storage.MediaStore) {
	h.media = media
}

// SetAIClient sets the generative service client
func (h *Handlers) SetAIClient(client *genai.Client) {
	h.ai = client
}

// SetWebSocketHandler sets the WebSocket handler for real-time notifications
func (h *Handlers) SetWebSocketHandler(wsHandler *ws.Handler) {
	h.wsHandler = wsHandler
}

// SetClock overrides the wall clock, for tests
func (h *Handlers) SetClock(clk clock.Clock) {
	h.clk = clk
}
