package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/worldwide-social/worldwide/internal/genai"
)

// withAIServer points the handlers at a stub generative backend. The
// stub always answers JSON; without the header resty would skip
// unmarshalling based on the sniffed content type.
func (suite *HandlersTestSuite) withAIServer(handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	suite.T().Cleanup(server.Close)

	suite.T().Setenv("GENAI_API_KEY", "test-key")
	suite.handlers.SetAIClient(genai.New(genai.WithBaseURL(server.URL)))
	return server
}

func generateContentResponse(mimeType string, data []byte, text string) map[string]any {
	part := map[string]any{}
	if data != nil {
		part["inlineData"] = map[string]any{
			"mimeType": mimeType,
			"data":     base64.StdEncoding.EncodeToString(data),
		}
	} else {
		part["text"] = text
	}
	return map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{part}}},
		},
	}
}

func (suite *HandlersTestSuite) TestChat() {
	suite.withAIServer(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateContentResponse("", nil, "hello from the model"))
	})

	w := suite.request("POST", "/api/v1/ai/chat", map[string]any{"prompt": "hi"})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "hello from the model")
}

func (suite *HandlersTestSuite) TestGenerateImageStoresMedia() {
	suite.withMediaStore()
	suite.withAIServer(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateContentResponse("image/png", []byte{0x89, 0x50, 0x4E, 0x47}, ""))
	})

	w := suite.request("POST", "/api/v1/ai/image", map[string]any{
		"prompt":       "a sunset",
		"aspect_ratio": "1:1",
	})
	suite.Equal(http.StatusOK, w.Code, "response: %s", w.Body.String())

	resp := suite.decode(w)
	suite.Contains(resp["url"], "/media/")
	suite.NotEmpty(resp["key"])
}

func (suite *HandlersTestSuite) TestGenerateImageEmptyResult() {
	suite.withAIServer(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	// Empty results are a soft failure: 200 with the error payload
	w := suite.request("POST", "/api/v1/ai/image", map[string]any{"prompt": "nothing"})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "EMPTY_RESULT")
}

func (suite *HandlersTestSuite) TestGenerateSpeechReturnsWAV() {
	// Four mono int16 samples, little-endian
	pcmBytes := []byte{0x00, 0x00, 0xFF, 0x7F, 0x00, 0x80, 0x01, 0x00}
	suite.withAIServer(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateContentResponse("audio/pcm", pcmBytes, ""))
	})

	w := suite.request("POST", "/api/v1/ai/speech", map[string]any{
		"text":  "say this",
		"voice": "Zephyr",
	})
	suite.Equal(http.StatusOK, w.Code, "response: %s", w.Body.String())
	suite.Equal("audio/wav", w.Header().Get("Content-Type"))
	suite.True(strings.HasPrefix(w.Body.String(), "RIFF"))
}

func (suite *HandlersTestSuite) TestVideoJobLifecycle() {
	suite.withAIServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(map[string]any{"name": "operations/render-1", "done": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/render-1",
			"done": true,
			"response": map[string]any{
				"generatedVideos": []any{
					map[string]any{"video": map[string]any{"uri": "https://cdn.example.com/clip.mp4"}},
				},
			},
		})
	})

	w := suite.request("POST", "/api/v1/ai/video", map[string]any{
		"prompt":       "a drone shot",
		"aspect_ratio": "16:9",
		"resolution":   "720p",
	})
	suite.Equal(http.StatusAccepted, w.Code, "response: %s", w.Body.String())

	resp := suite.decode(w)
	jobID := resp["id"].(string)
	suite.NotEmpty(jobID)

	require.Eventually(suite.T(), func() bool {
		w := suite.request("GET", "/api/v1/ai/video/"+jobID, nil)
		if w.Code != http.StatusOK {
			return false
		}
		status := suite.decode(w)
		return status["state"] == string(genai.OperationDone)
	}, 2*time.Second, 10*time.Millisecond)

	w = suite.request("GET", "/api/v1/ai/video/"+jobID, nil)
	status := suite.decode(w)
	suite.Equal("https://cdn.example.com/clip.mp4", status["video_uri"])
}

func (suite *HandlersTestSuite) TestVideoJobNotFound() {
	suite.withAIServer(func(w http.ResponseWriter, r *http.Request) {})

	w := suite.request("GET", "/api/v1/ai/video/unknown-job", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestAIServiceFailureSurfaced() {
	suite.withAIServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 500, "message": "model overloaded"},
		})
	})

	w := suite.request("POST", "/api/v1/ai/chat", map[string]any{"prompt": "hi"})
	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "SERVICE_FAILURE")
}

func (suite *HandlersTestSuite) TestAIWithoutClientAnswersKeyMissing() {
	// No client configured at all: every tool answers KEY_MISSING, never 500
	for _, path := range []string{"/api/v1/ai/chat", "/api/v1/ai/image", "/api/v1/ai/speech", "/api/v1/ai/video"} {
		w := suite.request("POST", path, map[string]any{"prompt": "hi", "text": "hi"})
		suite.Equal(http.StatusUnauthorized, w.Code, "path: %s, response: %s", path, w.Body.String())
		suite.Contains(w.Body.String(), "KEY_MISSING", "path: %s", path)
	}
}

func (suite *HandlersTestSuite) TestAIWithoutKeyAnswersKeyMissing() {
	suite.T().Setenv("GENAI_API_KEY", "")
	suite.handlers.SetAIClient(genai.New())

	w := suite.request("POST", "/api/v1/ai/chat", map[string]any{"prompt": "hi"})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "KEY_MISSING")
}
