package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/worldwide-social/worldwide/internal/errors"
	"github.com/worldwide-social/worldwide/internal/genai"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/middleware"
	"github.com/worldwide-social/worldwide/internal/pcm"
	"github.com/worldwide-social/worldwide/internal/util"
	"go.uber.org/zap"
)

// speechSampleRate is the fixed output rate of the speech model
const speechSampleRate = 24000

// videoJob tracks one render from submission to settled state
type videoJob struct {
	ID        string               `json:"id"`
	Prompt    string               `json:"prompt"`
	State     genai.OperationState `json:"state"`
	VideoURI  string               `json:"video_uri,omitempty"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type videoJobRegistry struct {
	mu   sync.Mutex
	jobs map[string]*videoJob
}

func newVideoJobRegistry() *videoJobRegistry {
	return &videoJobRegistry{jobs: make(map[string]*videoJob)}
}

func (r *videoJobRegistry) put(job *videoJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

func (r *videoJobRegistry) get(id string) (videoJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return videoJob{}, false
	}
	return *job, true
}

func (r *videoJobRegistry) settle(id string, state genai.OperationState, uri string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return
	}
	job.State = state
	job.VideoURI = uri
	if err != nil {
		job.Error = err.Error()
	}
}

// aiClient returns the generative client. A server running without a
// configured client answers the same key-missing error the client itself
// raises, so the caller sees one failure shape either way.
func (h *Handlers) aiClient(c *gin.Context) (*genai.Client, bool) {
	if h.ai == nil {
		util.RespondWithAPIError(c, apperrors.KeyMissing())
		return nil, false
	}
	return h.ai, true
}

// respondAIError converts a generation failure into the API error shape,
// falling back to a generic service failure for unknown errors.
func respondAIError(c *gin.Context, tool string, err error) {
	middleware.RecordError("generation", c.FullPath())

	if apiErr, ok := err.(*apperrors.APIError); ok {
		util.RespondWithAPIError(c, apiErr)
		return
	}
	util.RespondWithAPIError(c, apperrors.ServiceFailure(tool, err))
}

// GenerateImage renders an image from a prompt and stores it as media
func (h *Handlers) GenerateImage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	ai, ok := h.aiClient(c)
	if !ok {
		return
	}

	var req struct {
		Prompt      string `json:"prompt" binding:"required"`
		AspectRatio string `json:"aspect_ratio"`
		ImageSize   string `json:"image_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	start := time.Now()
	result, err := ai.GenerateImage(c.Request.Context(), genai.ImageConfig{
		AspectRatio: req.AspectRatio,
		ImageSize:   req.ImageSize,
	}, req.Prompt)
	if err != nil {
		middleware.RecordGeneration("image", "error", time.Since(start))
		respondAIError(c, "generate_image", err)
		return
	}
	middleware.RecordGeneration("image", "ok", time.Since(start))

	resp := gin.H{"mime_type": result.MimeType}
	if h.media != nil {
		saved, err := h.media.Save(c.Request.Context(), result.Media, userID, "generated.png", "generated")
		if err != nil {
			logger.Log.Error("Failed to store generated image", zap.Error(err))
			util.RespondInternalError(c, "Failed to store generated image")
			return
		}
		resp["url"] = saved.URL
		resp["key"] = saved.Key
	} else {
		resp["data"] = base64.StdEncoding.EncodeToString(result.Media)
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateVideo kicks off a video render and returns a job handle the
// client polls. Renders take minutes; nothing blocks the request.
func (h *Handlers) GenerateVideo(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}
	ai, ok := h.aiClient(c)
	if !ok {
		return
	}

	var req struct {
		Prompt         string `json:"prompt" binding:"required"`
		AspectRatio    string `json:"aspect_ratio"`
		Resolution     string `json:"resolution"`
		ReferenceImage string `json:"reference_image"` // base64 PNG
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	cfg := genai.VideoConfig{
		AspectRatio: req.AspectRatio,
		Resolution:  req.Resolution,
	}
	if req.ReferenceImage != "" {
		img, err := base64.StdEncoding.DecodeString(req.ReferenceImage)
		if err != nil {
			util.RespondWithAPIError(c, apperrors.DecodeFailure("reference image", err))
			return
		}
		cfg.ReferenceImage = img
	}

	start := time.Now()
	op, err := ai.GenerateVideo(c.Request.Context(), cfg, req.Prompt)
	if err != nil {
		middleware.RecordGeneration("video", "error", time.Since(start))
		respondAIError(c, "generate_video", err)
		return
	}

	job := &videoJob{
		ID:        uuid.New().String(),
		Prompt:    req.Prompt,
		State:     op.State,
		CreatedAt: h.clk.Now(),
	}
	h.videoJobs.put(job)

	go func() {
		err := ai.WaitForVideo(context.Background(), op)
		h.videoJobs.settle(job.ID, op.State, op.VideoURI, err)
		status := "ok"
		if err != nil {
			status = "error"
		}
		middleware.RecordGeneration("video", status, time.Since(start))
	}()

	c.JSON(http.StatusAccepted, job)
}

// GetVideoJob reports the state of a render job
func (h *Handlers) GetVideoJob(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	job, ok := h.videoJobs.get(c.Param("id"))
	if !ok {
		util.RespondNotFound(c, "video job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// GenerateSpeech narrates text and returns a playable WAV. The model
// emits raw 24kHz mono PCM; the codec wraps it in a WAV container.
func (h *Handlers) GenerateSpeech(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}
	ai, ok := h.aiClient(c)
	if !ok {
		return
	}

	var req struct {
		Text  string `json:"text" binding:"required"`
		Voice string `json:"voice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	start := time.Now()
	result, err := ai.GenerateSpeech(c.Request.Context(), genai.SpeechConfig{Voice: req.Voice}, req.Text)
	if err != nil {
		middleware.RecordGeneration("speech", "error", time.Since(start))
		respondAIError(c, "generate_speech", err)
		return
	}

	buf, err := pcm.DecodePCM(result.Media, speechSampleRate, 1)
	if err != nil {
		middleware.RecordGeneration("speech", "error", time.Since(start))
		respondAIError(c, "generate_speech", err)
		return
	}

	wavData, err := pcm.EncodeWAV(buf)
	if err != nil {
		middleware.RecordGeneration("speech", "error", time.Since(start))
		respondAIError(c, "generate_speech", err)
		return
	}
	middleware.RecordGeneration("speech", "ok", time.Since(start))

	c.Data(http.StatusOK, "audio/wav", wavData)
}

// Chat answers a prompt with the grounded assistant persona
func (h *Handlers) Chat(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}
	ai, ok := h.aiClient(c)
	if !ok {
		return
	}

	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	start := time.Now()
	result, err := ai.Chat(c.Request.Context(), genai.DefaultChatConfig(), req.Prompt)
	if err != nil {
		middleware.RecordGeneration("chat", "error", time.Since(start))
		respondAIError(c, "chat", err)
		return
	}
	middleware.RecordGeneration("chat", "ok", time.Since(start))

	c.JSON(http.StatusOK, gin.H{"text": result.Text})
}
