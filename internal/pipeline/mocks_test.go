package pipeline

import (
	"context"
	"image"

	"github.com/stretchr/testify/mock"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/models"
)

type MockFrameExtractor struct {
	mock.Mock
}

func (m *MockFrameExtractor) ExtractMiddleFrame(ctx context.Context, videoPath string) (image.Image, int, error) {
	args := m.Called(ctx, videoPath)
	img, _ := args.Get(0).(image.Image)
	return img, args.Int(1), args.Error(2)
}

type MockAudioExtractor struct {
	mock.Mock
}

func (m *MockAudioExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) (string, error) {
	args := m.Called(ctx, videoPath, audioPath)
	return args.String(0), args.Error(1)
}

type MockModelLoader struct {
	mock.Mock
}

func (m *MockModelLoader) LoadSpeech(ctx context.Context) ai.SpeechModel {
	model, _ := m.Called(ctx).Get(0).(ai.SpeechModel)
	return model
}

func (m *MockModelLoader) LoadVision(ctx context.Context) ai.VisionModel {
	model, _ := m.Called(ctx).Get(0).(ai.VisionModel)
	return model
}

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, model ai.SpeechModel, audioPath string) ai.Transcript {
	return m.Called(ctx, model, audioPath).Get(0).(ai.Transcript)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, model ai.VisionModel, imagePath, transcript string) string {
	return m.Called(ctx, model, imagePath, transcript).String(0)
}

type MockFaceCounter struct {
	mock.Mock
}

func (m *MockFaceCounter) CountFaces(ctx context.Context, imageData []byte) (int, error) {
	args := m.Called(ctx, imageData)
	return args.Int(0), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Insert(ctx context.Context, run *models.Run) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockLedger) Finish(ctx context.Context, run *models.Run) error {
	return m.Called(ctx, run).Error(0)
}

type stubSpeech struct{}

func (stubSpeech) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return "joyeux anniversaire", nil
}

type stubVision struct{}

func (stubVision) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	return "{}", nil
}
