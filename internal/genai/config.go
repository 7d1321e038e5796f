package genai

// Each tool carries its own config type instead of one flag bag, so a
// speech call cannot accidentally carry an aspect ratio and vice versa.

// ChatConfig configures the assistant. Grounding tools keep answers
// current; the thinking budget is only honored by the pro model.
type ChatConfig struct {
	Model             string
	SystemInstruction string
	ThinkingBudget    int
	SearchGrounding   bool
	MapsGrounding     bool
}

// DefaultChatConfig is the Flame assistant's tuning
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Model:             ModelChat,
		SystemInstruction: "You are Flame AI, the smart assistant for Worldwide. Use search and maps for grounding to provide up-to-date info.",
		ThinkingBudget:    32768,
		SearchGrounding:   true,
		MapsGrounding:     true,
	}
}

// ImageConfig configures still generation
type ImageConfig struct {
	AspectRatio string // "1:1", "16:9", "9:16"
	ImageSize   string // "1K", "2K", "4K"
}

// VideoConfig configures clip generation. ReferenceImage, when set, is
// raw PNG bytes used as the first frame.
type VideoConfig struct {
	AspectRatio    string // "16:9" or "9:16"
	Resolution     string // "720p"
	NumberOfVideos int
	ReferenceImage []byte
}

// SpeechConfig selects a prebuilt synthesis voice
type SpeechConfig struct {
	Voice string // e.g. "Zephyr", "Puck", "Charon"
}

// wire types shared by all tools

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Tools             []tool            `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
	GoogleMaps   *struct{} `json:"googleMaps,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string        `json:"responseModalities,omitempty"`
	ThinkingConfig     *thinkingConfig `json:"thinkingConfig,omitempty"`
	ImageConfig        *imageConfig    `json:"imageConfig,omitempty"`
	SpeechConfig       *speechConfig   `json:"speechConfig,omitempty"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}
