package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

type Analyzer struct {
	instructions string
	maxNewTokens int
	logger       *zap.Logger
}

func NewAnalyzer(instructions string, maxNewTokens int, logger *zap.Logger) *Analyzer {
	if maxNewTokens <= 0 {
		maxNewTokens = 2048
	}
	return &Analyzer{
		instructions: instructions,
		maxNewTokens: maxNewTokens,
		logger:       logger,
	}
}

// Analyze runs one generation over the frame at imagePath and the transcript
// and returns the model's raw text. The frame file is removed before
// returning. Failures come back as a JSON object with an "error" field, so the
// result is never empty.
func (a *Analyzer) Analyze(ctx context.Context, model VisionModel, imagePath, transcript string) (raw string) {
	defer func() {
		if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("failed to remove frame", zap.String("path", imagePath), zap.Error(err))
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis panicked", zap.Any("panic", r))
			raw = ErrorPayload(fmt.Sprintf("inference error: %v", r))
		}
	}()

	image, err := os.ReadFile(imagePath)
	if err != nil || len(image) == 0 {
		a.logger.Warn("analysis cancelled, frame missing", zap.String("path", imagePath))
		return ErrorPayload("image missing or invalid")
	}
	if model == nil {
		return ErrorPayload("vision model not loaded")
	}

	a.logger.Info("starting multimodal analysis", zap.Int("max_new_tokens", a.maxNewTokens))

	out, err := model.Generate(ctx, GenerateRequest{
		Instructions: a.instructions,
		Image:        image,
		Text:         transcriptTurn(transcript),
		MaxNewTokens: a.maxNewTokens,
	})
	if err != nil {
		a.logger.Error("inference failed", zap.Error(err))
		return ErrorPayload(fmt.Sprintf("inference error: %v", err))
	}
	if out == "" {
		return ErrorPayload("empty model response")
	}

	a.logger.Info("model response received", zap.Int("chars", len(out)))
	return out
}

// transcriptTurn quotes the transcript verbatim, without escaping.
func transcriptTurn(transcript string) string {
	return "Transcription Audio: \"" + transcript + "\""
}

// ErrorPayload renders msg as {"error": msg}.
func ErrorPayload(msg string) string {
	data, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return `{"error":"unknown error"}`
	}
	return string(data)
}
