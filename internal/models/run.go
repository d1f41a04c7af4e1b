package models

import (
	"time"

	"github.com/google/uuid"
)

// State is where a run sits in idle -> uploaded -> analyzing -> done | error.
type State string

const (
	StateIdle      State = "idle"
	StateUploaded  State = "uploaded"
	StateAnalyzing State = "analyzing"
	StateDone      State = "done"
	StateError     State = "error"
)

func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}

// Run is the ledger record of one analysis. Model answers are never stored.
type Run struct {
	ID                 string
	Filename           string
	ContentType        string
	Size               int64
	Status             State
	HadAudio           bool
	TranscriptLanguage string
	Error              string
	StartedAt          time.Time
	FinishedAt         *time.Time
}

func NewRun(filename, contentType string, size int64) *Run {
	return &Run{
		ID:          uuid.New().String(),
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Status:      StateIdle,
		StartedAt:   time.Now().UTC(),
	}
}

// Duration is zero while the run is still in flight.
func (r *Run) Duration() time.Duration {
	if !r.Status.Terminal() || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
