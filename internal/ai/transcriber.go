package ai

import (
	"context"
	"os"
	"strings"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"
)

type Transcriber struct {
	detector lingua.LanguageDetector
	logger   *zap.Logger
}

func NewTranscriber(logger *zap.Logger) *Transcriber {
	return &Transcriber{
		detector: lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build(),
		logger:   logger,
	}
}

// Transcribe never fails: a missing model, a missing file or a model error
// all yield an empty transcript.
func (t *Transcriber) Transcribe(ctx context.Context, model SpeechModel, audioPath string) Transcript {
	if model == nil {
		t.logger.Warn("speech model not loaded, skipping transcription")
		return Transcript{}
	}
	if audioPath == "" {
		t.logger.Info("no audio path, skipping transcription")
		return Transcript{}
	}
	if _, err := os.Stat(audioPath); err != nil {
		t.logger.Warn("audio file missing, skipping transcription", zap.String("path", audioPath), zap.Error(err))
		return Transcript{}
	}

	text, err := model.Transcribe(ctx, audioPath)
	if err != nil {
		t.logger.Error("transcription failed", zap.String("path", audioPath), zap.Error(err))
		return Transcript{}
	}

	transcript := Transcript{Text: strings.TrimSpace(text)}
	if transcript.Text != "" {
		if language, ok := t.detector.DetectLanguageOf(transcript.Text); ok {
			transcript.Language = language.String()
		}
	}

	t.logger.Info("transcription finished",
		zap.Int("chars", len(transcript.Text)),
		zap.String("language", transcript.Language),
	)
	return transcript
}
