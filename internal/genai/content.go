package genai

import (
	"context"
	"encoding/base64"
	"fmt"

	apperrors "github.com/worldwide-social/worldwide/internal/errors"
)

// Result is what a content call produced: text, inline media bytes, or
// both. Media is already base64-decoded.
type Result struct {
	Text     string
	Media    []byte
	MimeType string
}

// Chat sends a prompt to the assistant and returns grounded text
func (c *Client) Chat(ctx context.Context, cfg ChatConfig, prompt string) (*Result, error) {
	if err := c.ensureKey(); err != nil {
		return nil, err
	}

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if cfg.SystemInstruction != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: cfg.SystemInstruction}}}
	}
	if cfg.SearchGrounding {
		req.Tools = append(req.Tools, tool{GoogleSearch: &struct{}{}})
	}
	if cfg.MapsGrounding {
		req.Tools = append(req.Tools, tool{GoogleMaps: &struct{}{}})
	}
	if cfg.ThinkingBudget > 0 {
		req.GenerationConfig = &generationConfig{
			ThinkingConfig: &thinkingConfig{ThinkingBudget: cfg.ThinkingBudget},
		}
	}

	model := cfg.Model
	if model == "" {
		model = ModelChat
	}
	return c.generate(ctx, model, req, "chat")
}

// GenerateImage renders a still and returns its PNG bytes
func (c *Client) GenerateImage(ctx context.Context, cfg ImageConfig, prompt string) (*Result, error) {
	if err := c.ensureKey(); err != nil {
		return nil, err
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{
				AspectRatio: cfg.AspectRatio,
				ImageSize:   cfg.ImageSize,
			},
		},
	}

	result, err := c.generate(ctx, ModelImage, req, "generate_image")
	if err != nil {
		return nil, err
	}
	if len(result.Media) == 0 {
		return nil, apperrors.EmptyResult("generate_image")
	}
	return result, nil
}

// GenerateSpeech synthesizes the prompt as 24kHz mono 16-bit PCM
func (c *Client) GenerateSpeech(ctx context.Context, cfg SpeechConfig, prompt string) (*Result, error) {
	if err := c.ensureKey(); err != nil {
		return nil, err
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: cfg.Voice},
				},
			},
		},
	}

	result, err := c.generate(ctx, ModelSpeech, req, "generate_speech")
	if err != nil {
		return nil, err
	}
	if len(result.Media) == 0 {
		return nil, apperrors.EmptyResult("generate_speech")
	}
	return result, nil
}

// generate posts a generateContent request and flattens the first useful
// candidate. An empty candidate list is a soft empty result, not a
// transport failure.
func (c *Client) generate(ctx context.Context, model string, req generateRequest, operation string) (*Result, error) {
	var body generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&body).
		Post(fmt.Sprintf("/models/%s:generateContent", model))
	if err != nil {
		return nil, apperrors.ServiceFailure(operation, err)
	}
	if err := c.checkResponse(resp, operation); err != nil {
		return nil, err
	}
	if len(body.Candidates) == 0 {
		return nil, apperrors.EmptyResult(operation)
	}

	result := &Result{}
	for _, cand := range body.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" && result.Text == "" {
				result.Text = p.Text
			}
			if p.InlineData != nil && len(result.Media) == 0 {
				data, decErr := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if decErr != nil {
					return nil, apperrors.DecodeFailure("inline media", decErr)
				}
				result.Media = data
				result.MimeType = p.InlineData.MimeType
			}
		}
		if result.Text != "" || len(result.Media) > 0 {
			break
		}
	}
	return result, nil
}
