package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	apperrors "github.com/worldwide-social/worldwide/internal/errors"
	"github.com/worldwide-social/worldwide/internal/logger"
	"go.uber.org/zap"
)

// PollInterval is how often a pending video operation is re-checked
const PollInterval = 10 * time.Second

// OperationState tracks a long-running video render
type OperationState string

const (
	OperationPending OperationState = "pending"
	OperationPolling OperationState = "polling"
	OperationDone    OperationState = "done"
	OperationFailed  OperationState = "failed"
)

// VideoOperation is the handle returned by GenerateVideo. VideoURI is
// set once State reaches OperationDone.
type VideoOperation struct {
	Name     string
	State    OperationState
	VideoURI string
	Err      error
}

type videoRequest struct {
	Prompt string       `json:"prompt"`
	Image  *inlineData  `json:"image,omitempty"`
	Config *videoConfig `json:"config"`
}

type videoConfig struct {
	NumberOfVideos int    `json:"numberOfVideos"`
	Resolution     string `json:"resolution,omitempty"`
	AspectRatio    string `json:"aspectRatio,omitempty"`
}

type operationResponse struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Response *struct {
		GeneratedVideos []struct {
			Video struct {
				URI string `json:"uri"`
			} `json:"video"`
		} `json:"generatedVideos"`
	} `json:"response"`
}

// GenerateVideo starts a render and returns a pending operation handle.
// Callers drive it to completion with WaitForVideo.
func (c *Client) GenerateVideo(ctx context.Context, cfg VideoConfig, prompt string) (*VideoOperation, error) {
	if err := c.ensureKey(); err != nil {
		return nil, err
	}

	n := cfg.NumberOfVideos
	if n <= 0 {
		n = 1
	}
	req := videoRequest{
		Prompt: prompt,
		Config: &videoConfig{
			NumberOfVideos: n,
			Resolution:     cfg.Resolution,
			AspectRatio:    cfg.AspectRatio,
		},
	}
	if len(cfg.ReferenceImage) > 0 {
		req.Image = &inlineData{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(cfg.ReferenceImage),
		}
	}

	var body operationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&body).
		Post("/models/" + ModelVideo + ":generateVideos")
	if err != nil {
		return nil, apperrors.ServiceFailure("generate_video", err)
	}
	if err := c.checkResponse(resp, "generate_video"); err != nil {
		return nil, err
	}

	logger.Log.Info("Video render started", zap.String("operation", body.Name))
	return &VideoOperation{Name: body.Name, State: OperationPending}, nil
}

// PollOption tunes WaitForVideo
type PollOption func(*pollOptions)

type pollOptions struct {
	deadline time.Duration
}

// WithPollDeadline bounds how long WaitForVideo will keep polling.
// Without it the wait is unbounded, matching how renders of a minute or
// two are normally handled.
func WithPollDeadline(d time.Duration) PollOption {
	return func(o *pollOptions) { o.deadline = d }
}

// WaitForVideo drives the operation until it settles. The handle
// transitions pending -> polling on the first check and ends at done or
// failed; it never reverts once settled.
func (c *Client) WaitForVideo(ctx context.Context, op *VideoOperation, opts ...PollOption) error {
	var options pollOptions
	for _, opt := range opts {
		opt(&options)
	}

	var deadline <-chan time.Time
	if options.deadline > 0 {
		timer := c.clk.NewTimer(options.deadline)
		defer timer.Stop()
		deadline = timer.C()
	}

	for {
		if err := c.pollOnce(ctx, op); err != nil {
			op.State = OperationFailed
			op.Err = err
			return err
		}
		if op.State == OperationDone {
			return nil
		}

		timer := c.clk.NewTimer(PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			op.State = OperationFailed
			op.Err = ctx.Err()
			return apperrors.ServiceFailure("poll_video", ctx.Err())
		case <-deadline:
			timer.Stop()
			op.State = OperationFailed
			op.Err = context.DeadlineExceeded
			return apperrors.ServiceFailure("poll_video", context.DeadlineExceeded)
		case <-timer.C():
		}
	}
}

// pollOnce fetches the operation's current status
func (c *Client) pollOnce(ctx context.Context, op *VideoOperation) error {
	op.State = OperationPolling

	var body operationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetResult(&body).
		Get("/" + op.Name)
	if err != nil {
		return apperrors.ServiceFailure("poll_video", err)
	}
	if err := c.checkResponse(resp, "poll_video"); err != nil {
		return err
	}

	if !body.Done {
		return nil
	}
	if body.Error != nil {
		return apperrors.ServiceFailure("poll_video", fmt.Errorf("%s", body.Error.Message))
	}
	if body.Response == nil || len(body.Response.GeneratedVideos) == 0 {
		return apperrors.EmptyResult("poll_video")
	}

	op.State = OperationDone
	op.VideoURI = body.Response.GeneratedVideos[0].Video.URI
	logger.Log.Info("Video render complete", zap.String("operation", op.Name))
	return nil
}
