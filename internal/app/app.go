// Package app assembles the analysis pipeline from configuration. Both the
// web server and the command-line analyzer build their runner here.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/config"
	"github.com/Patasheva/congrats-analyzer/internal/media"
	"github.com/Patasheva/congrats-analyzer/internal/pipeline"
	"github.com/Patasheva/congrats-analyzer/internal/storage"
)

// NewRunner wires a pipeline.Runner. ledger may be nil.
func NewRunner(cfg *config.Config, ledger pipeline.RunLedger, logger *zap.Logger) (*pipeline.Runner, error) {
	localStorage, err := storage.NewLocalStorage(cfg.ScratchDir, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}

	frames, err := media.NewFrameExtractor(cfg.FFmpegPath, media.FFProbe, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize frame extractor: %w", err)
	}

	aiConfig := cfg.AI()
	if aiConfig.OpenAIAPIKey == "" && aiConfig.OpenAIBaseURL == "" {
		logger.Warn("no model endpoint configured, set OPENAI_API_KEY or OPENAI_BASE_URL")
	}

	deps := pipeline.Deps{
		Storage:     localStorage,
		Frames:      frames,
		Audio:       media.NewAudioExtractor(cfg.FFmpegPath, media.FFProbe, logger),
		Models:      ai.NewModelLoader(aiConfig, logger),
		Transcriber: ai.NewTranscriber(logger),
		Analyzer:    ai.NewAnalyzer(ai.PersonaPrompt, aiConfig.MaxNewTokens, logger),
		Ledger:      ledger,
	}
	if aiConfig.GoogleVisionKey != "" {
		deps.Faces = ai.NewGoogleVisionClient(aiConfig.GoogleVisionKey)
		logger.Info("face detection cross-check enabled")
	}

	return pipeline.NewRunner(deps, logger), nil
}
