// Package genai is the generative backend client powering the AI studio
// tools: image generation, video generation with operation polling, text
// to speech, and the grounded chat assistant.
package genai

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/worldwide-social/worldwide/internal/clock"
	apperrors "github.com/worldwide-social/worldwide/internal/errors"
	"github.com/worldwide-social/worldwide/internal/logger"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second

	// ModelChat handles the assistant, with optional extended thinking
	ModelChat = "gemini-3-pro-preview"
	// ModelImage renders stills
	ModelImage = "gemini-3-pro-image-preview"
	// ModelVideo renders clips through a long-running operation
	ModelVideo = "veo-3.1-fast-generate-preview"
	// ModelSpeech synthesizes 24kHz mono PCM
	ModelSpeech = "gemini-2.5-flash-preview-tts"
)

// Client talks to the generative API. The clock is injected so tests can
// drive the video polling loop without real ten second waits.
type Client struct {
	http   *resty.Client
	apiKey string
	clk    clock.Clock
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different endpoint, used by tests
func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

// WithClock swaps in an alternate time source
func WithClock(clk clock.Clock) Option {
	return func(c *Client) { c.clk = clk }
}

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New creates a client. The API key comes from the environment; a missing
// key is reported on first use rather than here so the server can boot
// without AI configured.
func New(opts ...Option) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(defaultBaseURL)
	httpClient.SetTimeout(defaultTimeout)
	httpClient.SetHeader("User-Agent", "Worldwide/1.0")

	httpClient.OnBeforeRequest(func(rc *resty.Client, req *resty.Request) error {
		logger.Log.Debug("GenAI request",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
		)
		return nil
	})
	httpClient.OnAfterResponse(func(rc *resty.Client, resp *resty.Response) error {
		logger.Log.Debug("GenAI response",
			zap.Int("status", resp.StatusCode()),
			zap.Duration("duration", resp.Time()),
		)
		return nil
	})

	c := &Client{
		http:   httpClient,
		apiKey: os.Getenv("GENAI_API_KEY"),
		clk:    clock.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ensureKey guards every call; the UI treats this as the "select an API
// key" prompt rather than a hard failure.
func (c *Client) ensureKey() error {
	if c.apiKey == "" {
		return apperrors.KeyMissing()
	}
	return nil
}

// apiError is the provider's error envelope
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) checkResponse(resp *resty.Response, operation string) error {
	if resp.IsSuccess() {
		return nil
	}
	var envelope apiError
	msg := resp.Status()
	if jsonErr := json.Unmarshal(resp.Body(), &envelope); jsonErr == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}
	logger.Log.Warn("GenAI call failed",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode()),
		zap.String("message", msg),
	)
	return apperrors.ServiceFailure(operation, fmt.Errorf("%s", msg))
}
