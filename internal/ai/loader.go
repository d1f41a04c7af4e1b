package ai

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var errNoCredentials = errors.New("no OPENAI_API_KEY or OPENAI_BASE_URL configured")

// ModelLoader hands out model handles. A handle is cached once it loads
// successfully; a failed load is attempted again on the next call.
type ModelLoader struct {
	config *Config
	logger *zap.Logger
	newAPI func(apiKey, baseURL string) openAIAPI

	mu     sync.Mutex
	speech SpeechModel
	vision VisionModel
}

func NewModelLoader(config *Config, logger *zap.Logger) *ModelLoader {
	return &ModelLoader{
		config: config,
		logger: logger,
		newAPI: func(apiKey, baseURL string) openAIAPI { return newOpenAIAPI(apiKey, baseURL) },
	}
}

// LoadSpeech returns nil when the speech model cannot be loaded.
func (l *ModelLoader) LoadSpeech(ctx context.Context) SpeechModel {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.speech != nil {
		return l.speech
	}

	client, err := l.load(ctx, l.config.SpeechModel)
	if err != nil {
		l.logger.Error("failed to load speech model", zap.String("model", l.config.SpeechModel), zap.Error(err))
		return nil
	}
	l.logger.Info("speech model loaded", zap.String("model", l.config.SpeechModel))
	l.speech = client
	return l.speech
}

// LoadVision returns nil when the vision-language model cannot be loaded.
func (l *ModelLoader) LoadVision(ctx context.Context) VisionModel {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.vision != nil {
		return l.vision
	}

	client, err := l.load(ctx, l.config.VisionModel)
	if err != nil {
		l.logger.Error("failed to load vision model", zap.String("model", l.config.VisionModel), zap.Error(err))
		return nil
	}
	l.logger.Info("vision model loaded", zap.String("model", l.config.VisionModel))
	l.vision = client
	return l.vision
}

func (l *ModelLoader) load(ctx context.Context, model string) (*OpenAIClient, error) {
	if l.config.OpenAIAPIKey == "" && l.config.OpenAIBaseURL == "" {
		return nil, errNoCredentials
	}

	client := NewOpenAIClient(l.newAPI(l.config.OpenAIAPIKey, l.config.OpenAIBaseURL), model)
	if l.config.VerifyModels {
		if err := client.verify(ctx); err != nil {
			return nil, err
		}
	}
	return client, nil
}
