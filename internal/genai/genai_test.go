package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldwide-social/worldwide/internal/clock"
	apperrors "github.com/worldwide-social/worldwide/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	t.Setenv("GENAI_API_KEY", "test-key")
	// The real API replies with a JSON content type; without it resty
	// skips SetResult unmarshalling and every parsed body stays empty.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return New(append([]Option{WithBaseURL(server.URL)}, opts...)...)
}

func asAPIError(t *testing.T, err error) *apperrors.APIError {
	t.Helper()
	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	return apiErr
}

func TestChatSendsGroundingAndThinking(t *testing.T) {
	var captured generateRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/"+ModelChat+":generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{Content: content{Parts: []part{{Text: "hello from flame"}}}}},
		})
	})
	c := newTestClient(t, handler)

	result, err := c.Chat(context.Background(), DefaultChatConfig(), "what's new nearby?")
	require.NoError(t, err)
	assert.Equal(t, "hello from flame", result.Text)

	require.Len(t, captured.Tools, 2)
	assert.NotNil(t, captured.Tools[0].GoogleSearch)
	assert.NotNil(t, captured.Tools[1].GoogleMaps)
	require.NotNil(t, captured.GenerationConfig)
	require.NotNil(t, captured.GenerationConfig.ThinkingConfig)
	assert.Equal(t, 32768, captured.GenerationConfig.ThinkingConfig.ThinkingBudget)
	require.NotNil(t, captured.SystemInstruction)
}

func TestMissingKeyRejectsBeforeNetwork(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")
	c := New(WithBaseURL("http://127.0.0.1:0"))

	_, err := c.Chat(context.Background(), DefaultChatConfig(), "hi")
	apiErr := asAPIError(t, err)
	assert.Equal(t, apperrors.ErrKeyMissing, apiErr.Code)
}

func TestGenerateImageDecodesInlineData(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/"+ModelImage+":generateContent", r.URL.Path)
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{Content: content{Parts: []part{{
				InlineData: &inlineData{
					MimeType: "image/png",
					Data:     base64.StdEncoding.EncodeToString(png),
				},
			}}}}},
		})
	})
	c := newTestClient(t, handler)

	result, err := c.GenerateImage(context.Background(), ImageConfig{AspectRatio: "1:1", ImageSize: "2K"}, "neon city")
	require.NoError(t, err)
	assert.Equal(t, png, result.Media)
	assert.Equal(t, "image/png", result.MimeType)
}

func TestEmptyCandidatesIsSoftEmptyResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	})
	c := newTestClient(t, handler)

	_, err := c.GenerateImage(context.Background(), ImageConfig{}, "nothing")
	apiErr := asAPIError(t, err)
	assert.Equal(t, apperrors.ErrEmptyResult, apiErr.Code)
}

func TestServerErrorMapsToServiceFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"model overloaded","status":"UNAVAILABLE"}}`))
	})
	c := newTestClient(t, handler)

	_, err := c.Chat(context.Background(), ChatConfig{}, "hi")
	apiErr := asAPIError(t, err)
	assert.Equal(t, apperrors.ErrServiceFailure, apiErr.Code)
	assert.Contains(t, apiErr.Details, "model overloaded")
}

func TestGenerateSpeechRequestsAudioModality(t *testing.T) {
	var captured generateRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{Content: content{Parts: []part{{
				InlineData: &inlineData{
					MimeType: "audio/pcm",
					Data:     base64.StdEncoding.EncodeToString([]byte{0, 0, 1, 0}),
				},
			}}}}},
		})
	})
	c := newTestClient(t, handler)

	result, err := c.GenerateSpeech(context.Background(), SpeechConfig{Voice: "Zephyr"}, "hello world")
	require.NoError(t, err)
	assert.Len(t, result.Media, 4)

	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, []string{"AUDIO"}, captured.GenerationConfig.ResponseModalities)
	require.NotNil(t, captured.GenerationConfig.SpeechConfig)
	assert.Equal(t, "Zephyr", captured.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestVideoOperationPollsUntilDone(t *testing.T) {
	var polls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(operationResponse{Name: "operations/op-123"})
		default:
			assert.Equal(t, "/operations/op-123", r.URL.Path)
			n := polls.Add(1)
			if n < 3 {
				json.NewEncoder(w).Encode(operationResponse{Name: "operations/op-123"})
				return
			}
			w.Write([]byte(`{
				"name": "operations/op-123",
				"done": true,
				"response": {"generatedVideos": [{"video": {"uri": "https://cdn.example/clip.mp4"}}]}
			}`))
		}
	})
	fake := clock.NewFake()
	c := newTestClient(t, handler, WithClock(fake))

	op, err := c.GenerateVideo(context.Background(), VideoConfig{AspectRatio: "9:16", Resolution: "720p"}, "surf at dawn")
	require.NoError(t, err)
	assert.Equal(t, OperationPending, op.State)

	done := make(chan error, 1)
	go func() { done <- c.WaitForVideo(context.Background(), op) }()

	// Each advance releases one poll wait; the first check happens
	// immediately, the rest after ten second intervals.
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.Equal(t, OperationDone, op.State)
			assert.Equal(t, "https://cdn.example/clip.mp4", op.VideoURI)
			assert.GreaterOrEqual(t, polls.Load(), int32(3))
			return
		default:
			fake.Advance(PollInterval)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestVideoOperationFailureSurfaces(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(operationResponse{Name: "operations/op-err"})
			return
		}
		w.Write([]byte(`{"name": "operations/op-err", "done": true, "error": {"code": 13, "message": "render crashed"}}`))
	})
	c := newTestClient(t, handler, WithClock(clock.NewFake()))

	op, err := c.GenerateVideo(context.Background(), VideoConfig{}, "doomed clip")
	require.NoError(t, err)

	err = c.WaitForVideo(context.Background(), op)
	apiErr := asAPIError(t, err)
	assert.Equal(t, apperrors.ErrServiceFailure, apiErr.Code)
	assert.Equal(t, OperationFailed, op.State)
	assert.Contains(t, apiErr.Details, "render crashed")
}

func TestVideoPollDeadlineBoundsTheWait(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(operationResponse{Name: "operations/op-slow"})
			return
		}
		json.NewEncoder(w).Encode(operationResponse{Name: "operations/op-slow"})
	})
	fake := clock.NewFake()
	c := newTestClient(t, handler, WithClock(fake))

	op, err := c.GenerateVideo(context.Background(), VideoConfig{}, "never finishes")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- c.WaitForVideo(context.Background(), op, WithPollDeadline(25*time.Second))
	}()

	for {
		select {
		case err := <-done:
			apiErr := asAPIError(t, err)
			assert.Equal(t, apperrors.ErrServiceFailure, apiErr.Code)
			assert.Equal(t, OperationFailed, op.State)
			return
		default:
			fake.Advance(PollInterval)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestCancelledContextStopsPolling(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(operationResponse{Name: "operations/op-ctx"})
	})
	c := newTestClient(t, handler, WithClock(clock.NewFake()))

	op, err := c.GenerateVideo(context.Background(), VideoConfig{}, "cancelled")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.WaitForVideo(ctx, op) }()
	cancel()

	err = <-done
	require.Error(t, err)
	assert.Equal(t, OperationFailed, op.State)
}
