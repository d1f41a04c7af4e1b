package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/locale"
	"github.com/Patasheva/congrats-analyzer/internal/media"
	"github.com/Patasheva/congrats-analyzer/internal/metrics"
	"github.com/Patasheva/congrats-analyzer/internal/models"
	"github.com/Patasheva/congrats-analyzer/internal/persona"
	"github.com/Patasheva/congrats-analyzer/internal/storage"
	"github.com/Patasheva/congrats-analyzer/internal/tracing"
)

// Deps are the collaborators of a Runner. Faces and Ledger are optional.
type Deps struct {
	Storage     storage.Storage
	Frames      FrameExtractor
	Audio       AudioExtractor
	Models      ModelLoader
	Transcriber Transcriber
	Analyzer    Analyzer
	Faces       ai.FaceCounter
	Ledger      RunLedger
}

type Runner struct {
	deps   Deps
	logger *zap.Logger
}

func NewRunner(deps Deps, logger *zap.Logger) *Runner {
	return &Runner{deps: deps, logger: logger}
}

// Run executes one analysis. It always returns an Outcome; failures are
// reported through its State, InputError and Err fields. Scratch files are
// removed before Run returns, whatever happened.
func (r *Runner) Run(ctx context.Context, upload Upload) (out *Outcome) {
	start := time.Now()
	out = &Outcome{State: models.StateIdle, FaceCount: -1}

	ctx, span := tracing.Tracer().Start(ctx, "pipeline.Run",
		trace.WithAttributes(attribute.String("video.filename", upload.Filename)))
	defer span.End()

	metrics.ActiveRuns.Inc()
	defer metrics.ActiveRuns.Dec()

	ws, err := r.deps.Storage.NewWorkspace()
	if err != nil {
		r.logger.Error("failed to allocate workspace", zap.Error(err))
		out.fail(err)
		r.finish(ctx, nil, out, start)
		return out
	}

	run := models.NewRun(upload.Filename, upload.ContentType, upload.Size)
	run.ID = ws.ID
	out.RunID = run.ID
	logger := r.logger.With(zap.String("run_id", run.ID))
	span.SetAttributes(attribute.String("run.id", run.ID))

	r.record(ctx, logger, run)

	defer func() {
		out.add(LevelInfo, locale.CleaningUp)
		if err := ws.Cleanup(); err != nil {
			logger.Warn("cleanup incomplete", zap.Error(err))
		}
		out.add(LevelSuccess, locale.CleanupDone)

		run.Status = out.State
		run.HadAudio = out.HasAudio
		run.TranscriptLanguage = out.Transcript.Language
		run.Error = out.InputError + out.Err
		r.finish(ctx, run, out, start)

		if out.State == models.StateError {
			span.SetStatus(codes.Error, run.Error)
		}
		logger.Info("run finished",
			zap.String("state", string(out.State)),
			zap.Duration("duration", out.Duration),
		)
	}()

	defer func() {
		if p := recover(); p != nil {
			logger.Error("run panicked", zap.Any("panic", p))
			out.fail(fmt.Errorf("%v", p))
		}
	}()

	r.execute(ctx, logger, ws, upload, out)
	return out
}

func (r *Runner) execute(ctx context.Context, logger *zap.Logger, ws *storage.Workspace, upload Upload, out *Outcome) {
	videoPath, ok := r.saveVideo(ctx, logger, ws, upload, out)
	if !ok {
		return
	}
	out.State = models.StateUploaded
	logger.Info("video saved", zap.String("path", videoPath))

	out.State = models.StateAnalyzing
	out.add(LevelInfo, locale.Preprocessing)

	if !r.extractFrame(ctx, logger, ws, videoPath, out) {
		return
	}
	out.add(LevelSuccess, locale.FrameExtracted)

	r.countFaces(ctx, logger, out)

	audioPath := r.extractAudio(ctx, logger, ws, videoPath, out)
	if out.HasAudio {
		r.transcribe(ctx, audioPath, out)
		out.add(LevelInfo, locale.Transcription)
	} else {
		metrics.RunsWithoutAudioTotal.Inc()
	}

	r.analyze(ctx, ws, out)

	out.Persona = persona.Parse(out.Raw)
	metrics.PersonaIssuesTotal.Add(float64(len(out.Persona.Issues)))
	switch {
	case out.Persona.DecodeError != "":
		logger.Warn("model answer is not JSON", zap.String("error", out.Persona.DecodeError))
	case out.Persona.ModelError != "":
		logger.Warn("analysis returned an error", zap.String("error", out.Persona.ModelError))
	case len(out.Persona.Issues) > 0:
		logger.Info("model answer has schema issues", zap.Int("issues", len(out.Persona.Issues)))
	}
	out.add(LevelSuccess, locale.AnalysisResults)

	out.State = models.StateDone
}

func (r *Runner) saveVideo(ctx context.Context, logger *zap.Logger, ws *storage.Workspace, upload Upload, out *Outcome) (string, bool) {
	_, done := r.stage(ctx, "save")
	defer done()

	videoPath, err := ws.SaveVideo(upload.File, storage.FileInfo{
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Size:        upload.Size,
	})
	switch {
	case errors.Is(err, storage.ErrUnsupportedFormat):
		logger.Warn("unsupported upload", zap.String("filename", upload.Filename))
		out.inputError(locale.UnsupportedVideo, err)
		return "", false
	case errors.Is(err, storage.ErrEmptyUpload):
		logger.Warn("empty upload", zap.String("filename", upload.Filename))
		out.inputError(locale.FrameUnavailable, media.ErrFrameUnavailable)
		return "", false
	case err != nil:
		logger.Error("failed to save upload", zap.Error(err))
		out.fail(err)
		return "", false
	}
	return videoPath, true
}

// extractFrame fills out.Frame with the middle frame and writes it to the
// workspace for the analyzer. A missing frame is an input error.
func (r *Runner) extractFrame(ctx context.Context, logger *zap.Logger, ws *storage.Workspace, videoPath string, out *Outcome) bool {
	ctx, done := r.stage(ctx, "frame")
	defer done()

	frame, index, err := r.deps.Frames.ExtractMiddleFrame(ctx, videoPath)
	if err != nil {
		logger.Warn("frame unavailable", zap.Error(err))
		out.inputError(locale.FrameUnavailable, err)
		return false
	}

	jpeg, err := media.SaveJPEG(frame, ws.FramePath)
	if err != nil {
		logger.Error("failed to save frame", zap.Error(err))
		out.fail(err)
		return false
	}
	out.Frame = jpeg
	out.FrameIndex = index
	return true
}

// extractAudio never aborts the run; a failed extraction counts as no audio.
func (r *Runner) extractAudio(ctx context.Context, logger *zap.Logger, ws *storage.Workspace, videoPath string, out *Outcome) string {
	ctx, done := r.stage(ctx, "audio")
	defer done()

	audioPath, err := r.deps.Audio.ExtractAudio(ctx, videoPath, ws.AudioPath)
	switch {
	case err != nil:
		logger.Warn("audio extraction failed, continuing without audio", zap.Error(err))
		out.add(LevelWarning, locale.AudioFailed)
	case audioPath == "":
		out.add(LevelWarning, locale.NoAudio)
	default:
		out.HasAudio = true
	}
	return audioPath
}

func (r *Runner) transcribe(ctx context.Context, audioPath string, out *Outcome) {
	ctx, done := r.stage(ctx, "transcribe")
	defer done()

	speech := r.deps.Models.LoadSpeech(ctx)
	if speech == nil {
		metrics.ModelLoadFailuresTotal.WithLabelValues("speech").Inc()
		out.add(LevelWarning, locale.SpeechUnloaded)
	}
	out.Transcript = r.deps.Transcriber.Transcribe(ctx, speech, audioPath)
}

func (r *Runner) analyze(ctx context.Context, ws *storage.Workspace, out *Outcome) {
	ctx, done := r.stage(ctx, "analyze")
	defer done()

	vision := r.deps.Models.LoadVision(ctx)
	if vision == nil {
		metrics.ModelLoadFailuresTotal.WithLabelValues("vision").Inc()
		out.add(LevelError, locale.VisionUnloaded)
	}
	out.Raw = r.deps.Analyzer.Analyze(ctx, vision, ws.FramePath, out.Transcript.Text)
}

func (r *Runner) countFaces(ctx context.Context, logger *zap.Logger, out *Outcome) {
	if r.deps.Faces == nil {
		return
	}

	ctx, done := r.stage(ctx, "faces")
	defer done()

	n, err := r.deps.Faces.CountFaces(ctx, out.Frame)
	if err != nil {
		logger.Warn("face detection failed", zap.Error(err))
		return
	}
	out.FaceCount = n
}

// stage opens a span and returns a func that closes it and records the
// stage duration.
func (r *Runner) stage(ctx context.Context, name string) (context.Context, func()) {
	start := time.Now()
	ctx, span := tracing.Tracer().Start(ctx, "pipeline."+name)
	return ctx, func() {
		metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		span.End()
	}
}

func (r *Runner) record(ctx context.Context, logger *zap.Logger, run *models.Run) {
	if r.deps.Ledger == nil {
		return
	}
	if err := r.deps.Ledger.Insert(ctx, run); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

func (r *Runner) finish(ctx context.Context, run *models.Run, out *Outcome, start time.Time) {
	out.Duration = time.Since(start)
	metrics.RunsTotal.WithLabelValues(string(out.State)).Inc()

	if run == nil || r.deps.Ledger == nil {
		return
	}
	// The request may already be cancelled; the ledger row should still close.
	if err := r.deps.Ledger.Finish(context.WithoutCancel(ctx), run); err != nil {
		r.logger.Warn("failed to finish run record", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (o *Outcome) inputError(key locale.Key, err error) {
	o.State = models.StateError
	o.InputError = err.Error()
	o.add(LevelError, key)
}

func (o *Outcome) fail(err error) {
	o.State = models.StateError
	o.Err = err.Error()
	o.add(LevelError, locale.RunFailed, err.Error())
}
