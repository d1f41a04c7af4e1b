package ai

import (
	"context"
)

// SpeechModel is a loaded speech-to-text handle.
type SpeechModel interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// VisionModel is a loaded vision-language generation handle. It receives the
// rubric, one JPEG frame and the labelled transcript turn.
type VisionModel interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// FaceCounter is an optional second opinion on how many people are visible.
type FaceCounter interface {
	CountFaces(ctx context.Context, imageData []byte) (int, error)
}

type GenerateRequest struct {
	Instructions string
	Image        []byte
	Text         string
	MaxNewTokens int
}

type Transcript struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type Config struct {
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	SpeechModel     string
	VisionModel     string
	MaxNewTokens    int
	VerifyModels    bool
	GoogleVisionKey string
}

func NewConfig() *Config {
	return &Config{
		SpeechModel:  "whisper-1",
		VisionModel:  "gpt-4o",
		MaxNewTokens: 2048,
	}
}
