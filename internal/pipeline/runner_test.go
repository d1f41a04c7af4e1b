package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/locale"
	"github.com/Patasheva/congrats-analyzer/internal/media"
	"github.com/Patasheva/congrats-analyzer/internal/models"
	"github.com/Patasheva/congrats-analyzer/internal/persona"
	"github.com/Patasheva/congrats-analyzer/internal/storage"
)

const onePersonAnswer = "```json\n" + `{
  "number_of_people": "1",
  "people": [{"gender": "male", "age": "35–49 years", "attire": "formal"}],
  "recording_location": "office",
  "motivation": "professional",
  "occasion": "retirement",
  "viral_mood": "grateful",
  "relationship": "colleague"
}` + "\n```"

type fixture struct {
	scratch     string
	frames      *MockFrameExtractor
	audio       *MockAudioExtractor
	models      *MockModelLoader
	transcriber *MockTranscriber
	analyzer    *MockAnalyzer
	ledger      *MockLedger
	runner      *Runner
}

func newFixture(t *testing.T, faces ai.FaceCounter) *fixture {
	t.Helper()

	scratch := t.TempDir()
	store, err := storage.NewLocalStorage(scratch, zap.NewNop())
	require.NoError(t, err)

	f := &fixture{
		scratch:     scratch,
		frames:      new(MockFrameExtractor),
		audio:       new(MockAudioExtractor),
		models:      new(MockModelLoader),
		transcriber: new(MockTranscriber),
		analyzer:    new(MockAnalyzer),
		ledger:      new(MockLedger),
	}
	f.ledger.On("Insert", mock.Anything, mock.Anything).Return(nil)

	f.runner = NewRunner(Deps{
		Storage:     store,
		Frames:      f.frames,
		Audio:       f.audio,
		Models:      f.models,
		Transcriber: f.transcriber,
		Analyzer:    f.analyzer,
		Faces:       faces,
		Ledger:      f.ledger,
	}, zap.NewNop())
	return f
}

func (f *fixture) assertScratchEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace left behind")
}

func upload(name string, content []byte) Upload {
	return Upload{
		File:        bytes.NewReader(content),
		Filename:    name,
		ContentType: "video/mp4",
		Size:        int64(len(content)),
	}
}

func keys(out *Outcome) []locale.Key {
	var ks []locale.Key
	for _, m := range out.Messages {
		ks = append(ks, m.Key)
	}
	return ks
}

func TestRunner_SilentVideoOnePerson(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).
		Return(image.NewRGBA(image.Rect(0, 0, 8, 8)), 150, nil)
	f.audio.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Return("", nil)
	f.models.On("LoadVision", mock.Anything).Return(stubVision{})
	f.analyzer.On("Analyze", mock.Anything, stubVision{}, mock.Anything, "").
		Run(func(args mock.Arguments) {
			_, err := os.Stat(args.String(2))
			assert.NoError(t, err, "frame should exist when the analyzer runs")
		}).
		Return(onePersonAnswer)
	f.ledger.On("Finish", mock.Anything, mock.MatchedBy(func(run *models.Run) bool {
		return run.Status == models.StateDone && !run.HadAudio && run.Filename == "silent.mp4"
	})).Return(nil)

	out := f.runner.Run(ctx, upload("silent.mp4", []byte("not really an mp4")))

	assert.Equal(t, models.StateDone, out.State)
	assert.Equal(t, 150, out.FrameIndex)
	assert.NotEmpty(t, out.Frame)
	assert.False(t, out.HasAudio)
	assert.Empty(t, out.Transcript.Text)
	assert.Empty(t, out.InputError)
	assert.Contains(t, keys(out), locale.NoAudio)
	assert.Contains(t, keys(out), locale.CleanupDone)

	require.True(t, out.Analyzed())
	require.True(t, out.Persona.OK())
	assert.Empty(t, out.Persona.Issues)
	people, ok := out.Persona.Entry(persona.FieldPeople)
	require.True(t, ok)
	assert.Len(t, people.Items, 1)
	assert.False(t, out.FaceMismatch())

	f.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
	f.models.AssertNotCalled(t, "LoadSpeech", mock.Anything)
	f.ledger.AssertExpectations(t)
	f.assertScratchEmpty(t)
}

func TestRunner_InputErrors(t *testing.T) {
	tests := []struct {
		name     string
		upload   Upload
		frameErr error
		wantKey  locale.Key
	}{
		{
			name:    "zero-byte upload",
			upload:  upload("empty.mp4", nil),
			wantKey: locale.FrameUnavailable,
		},
		{
			name:     "corrupted upload",
			upload:   upload("corrupt.mov", []byte{0x00, 0x01, 0x02}),
			frameErr: media.ErrFrameUnavailable,
			wantKey:  locale.FrameUnavailable,
		},
		{
			name:    "unsupported extension",
			upload:  upload("clip.webm", []byte("data")),
			wantKey: locale.UnsupportedVideo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			if tt.frameErr != nil {
				f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).Return(nil, 0, tt.frameErr)
			}
			f.ledger.On("Finish", mock.Anything, mock.MatchedBy(func(run *models.Run) bool {
				return run.Status == models.StateError && run.Error != ""
			})).Return(nil)

			out := f.runner.Run(context.Background(), tt.upload)

			assert.Equal(t, models.StateError, out.State)
			assert.NotEmpty(t, out.InputError)
			assert.Contains(t, keys(out), tt.wantKey)
			assert.Contains(t, keys(out), locale.CleanupDone)
			assert.False(t, out.Analyzed())

			f.audio.AssertNotCalled(t, "ExtractAudio", mock.Anything, mock.Anything, mock.Anything)
			f.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
			f.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.ledger.AssertExpectations(t)
			f.assertScratchEmpty(t)
		})
	}
}

func TestRunner_WithAudio(t *testing.T) {
	f := newFixture(t, nil)

	f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).
		Return(image.NewRGBA(image.Rect(0, 0, 4, 4)), 12, nil)
	f.audio.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Return("/scratch/temp_audio.wav", nil)
	f.models.On("LoadSpeech", mock.Anything).Return(stubSpeech{})
	f.models.On("LoadVision", mock.Anything).Return(stubVision{})
	f.transcriber.On("Transcribe", mock.Anything, stubSpeech{}, "/scratch/temp_audio.wav").
		Return(ai.Transcript{Text: "joyeux anniversaire", Language: "FRENCH"})
	f.analyzer.On("Analyze", mock.Anything, stubVision{}, mock.Anything, "joyeux anniversaire").
		Return(onePersonAnswer)
	f.ledger.On("Finish", mock.Anything, mock.MatchedBy(func(run *models.Run) bool {
		return run.HadAudio && run.TranscriptLanguage == "FRENCH"
	})).Return(nil)

	out := f.runner.Run(context.Background(), upload("party.mkv", []byte("mkv")))

	assert.Equal(t, models.StateDone, out.State)
	assert.True(t, out.HasAudio)
	assert.Equal(t, "joyeux anniversaire", out.Transcript.Text)
	assert.NotContains(t, keys(out), locale.NoAudio)
	f.transcriber.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestRunner_AudioFailureIsSoft(t *testing.T) {
	f := newFixture(t, nil)

	f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).
		Return(image.NewRGBA(image.Rect(0, 0, 4, 4)), 0, nil)
	f.audio.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("ffmpeg exploded"))
	f.models.On("LoadVision", mock.Anything).Return(stubVision{})
	f.analyzer.On("Analyze", mock.Anything, stubVision{}, mock.Anything, "").Return(onePersonAnswer)
	f.ledger.On("Finish", mock.Anything, mock.Anything).Return(nil)

	out := f.runner.Run(context.Background(), upload("a.avi", []byte("avi")))

	assert.Equal(t, models.StateDone, out.State)
	assert.False(t, out.HasAudio)
	assert.Contains(t, keys(out), locale.AudioFailed)
}

func TestRunner_VisionModelMissing(t *testing.T) {
	f := newFixture(t, nil)

	f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).
		Return(image.NewRGBA(image.Rect(0, 0, 4, 4)), 3, nil)
	f.audio.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Return("", nil)
	f.models.On("LoadVision", mock.Anything).Return(nil)
	f.analyzer.On("Analyze", mock.Anything, nil, mock.Anything, "").
		Return(ai.ErrorPayload("vision model not loaded"))
	f.ledger.On("Finish", mock.Anything, mock.Anything).Return(nil)

	out := f.runner.Run(context.Background(), upload("a.mp4", []byte("mp4")))

	assert.Equal(t, models.StateDone, out.State)
	assert.Contains(t, keys(out), locale.VisionUnloaded)
	require.True(t, out.Analyzed())
	assert.Equal(t, "vision model not loaded", out.Persona.ModelError)
}

func TestRunner_FaceMismatch(t *testing.T) {
	faces := new(MockFaceCounter)
	faces.On("CountFaces", mock.Anything, mock.Anything).Return(3, nil)
	f := newFixture(t, faces)

	f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).
		Return(image.NewRGBA(image.Rect(0, 0, 4, 4)), 3, nil)
	f.audio.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).Return("", nil)
	f.models.On("LoadVision", mock.Anything).Return(stubVision{})
	f.analyzer.On("Analyze", mock.Anything, stubVision{}, mock.Anything, "").Return(onePersonAnswer)
	f.ledger.On("Finish", mock.Anything, mock.Anything).Return(nil)

	out := f.runner.Run(context.Background(), upload("a.mp4", []byte("mp4")))

	assert.Equal(t, 3, out.FaceCount)
	assert.True(t, out.FaceMismatch())
	faces.AssertExpectations(t)
}

func TestRunner_PanicStillCleansUp(t *testing.T) {
	f := newFixture(t, nil)

	f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).
		Return(image.NewRGBA(image.Rect(0, 0, 4, 4)), 3, nil)
	f.audio.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("decoder crashed") }).
		Return("", nil)
	f.ledger.On("Finish", mock.Anything, mock.MatchedBy(func(run *models.Run) bool {
		return run.Status == models.StateError
	})).Return(nil)

	out := f.runner.Run(context.Background(), upload("a.mp4", []byte("mp4")))

	assert.Equal(t, models.StateError, out.State)
	assert.Contains(t, out.Err, "decoder crashed")
	assert.Contains(t, keys(out), locale.CleanupDone)
	f.assertScratchEmpty(t)
}

func TestRunner_PanicEndsStageSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newFixture(t, nil)
	f.frames.On("ExtractMiddleFrame", mock.Anything, mock.Anything).
		Return(image.NewRGBA(image.Rect(0, 0, 4, 4)), 3, nil)
	f.audio.On("ExtractAudio", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("decoder crashed") }).
		Return("", nil)
	f.ledger.On("Finish", mock.Anything, mock.Anything).Return(nil)

	out := f.runner.Run(context.Background(), upload("a.mp4", []byte("mp4")))
	require.Equal(t, models.StateError, out.State)

	var ended []string
	for _, span := range recorder.Ended() {
		ended = append(ended, span.Name())
	}
	assert.Contains(t, ended, "pipeline.audio")
	assert.Contains(t, ended, "pipeline.Run")
	assert.Len(t, ended, len(recorder.Started()), "every started span must be ended")
}

func TestFaceBucket(t *testing.T) {
	assert.Equal(t, "1", faceBucket(1))
	assert.Equal(t, "5", faceBucket(5))
	assert.Equal(t, ">5", faceBucket(9))
}
