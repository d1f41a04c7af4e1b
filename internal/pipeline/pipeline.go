// Package pipeline drives one analysis run from upload to report: save the
// video, take its middle frame, pull and transcribe the audio, ask the
// vision model to fill in the persona questionnaire, then clean up.
package pipeline

import (
	"context"
	"image"
	"io"
	"strconv"
	"time"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/locale"
	"github.com/Patasheva/congrats-analyzer/internal/models"
	"github.com/Patasheva/congrats-analyzer/internal/persona"
)

type FrameExtractor interface {
	ExtractMiddleFrame(ctx context.Context, videoPath string) (image.Image, int, error)
}

type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) (string, error)
}

type ModelLoader interface {
	LoadSpeech(ctx context.Context) ai.SpeechModel
	LoadVision(ctx context.Context) ai.VisionModel
}

type Transcriber interface {
	Transcribe(ctx context.Context, model ai.SpeechModel, audioPath string) ai.Transcript
}

type Analyzer interface {
	Analyze(ctx context.Context, model ai.VisionModel, imagePath, transcript string) string
}

// RunLedger records run metadata. Analysis results are never passed to it.
type RunLedger interface {
	Insert(ctx context.Context, run *models.Run) error
	Finish(ctx context.Context, run *models.Run) error
}

type Upload struct {
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is one progress line. Key selects the localized copy, Args fill
// its verbs.
type Message struct {
	Level Level
	Key   locale.Key
	Args  []any
}

func (m Message) Text(c *locale.Catalog) string {
	return c.T(m.Key, m.Args...)
}

// Outcome is everything the report needs about a finished run.
type Outcome struct {
	RunID      string
	State      models.State
	Messages   []Message
	Frame      []byte
	FrameIndex int
	HasAudio   bool
	Transcript ai.Transcript
	Raw        string
	Persona    *persona.Result
	FaceCount  int
	InputError string
	Err        string
	Duration   time.Duration
}

// Analyzed reports whether the run reached the model.
func (o *Outcome) Analyzed() bool {
	return o.Persona != nil
}

// FaceMismatch reports whether face detection disagrees with the model's
// number_of_people. Runs without face detection never mismatch.
func (o *Outcome) FaceMismatch() bool {
	if o.FaceCount < 0 || o.Persona == nil {
		return false
	}
	entry, ok := o.Persona.Entry(persona.FieldNumberOfPeople)
	if !ok || entry.IsList {
		return false
	}
	return entry.Value != faceBucket(o.FaceCount)
}

func faceBucket(n int) string {
	if n > 5 {
		return ">5"
	}
	return strconv.Itoa(n)
}

func (o *Outcome) add(level Level, key locale.Key, args ...any) {
	o.Messages = append(o.Messages, Message{Level: level, Key: key, Args: args})
}
