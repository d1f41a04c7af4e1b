package models

import (
	"testing"
	"time"
)

func TestRunDuration(t *testing.T) {
	run := NewRun("party.mkv", "video/x-matroska", 1024)
	if run.Duration() != 0 {
		t.Errorf("Expected zero duration for a new run, got %v", run.Duration())
	}

	finished := run.StartedAt.Add(12 * time.Second)
	run.FinishedAt = &finished
	run.Status = StateAnalyzing
	if run.Duration() != 0 {
		t.Errorf("Expected zero duration while analyzing, got %v", run.Duration())
	}

	run.Status = StateDone
	if run.Duration() != 12*time.Second {
		t.Errorf("Expected 12s, got %v", run.Duration())
	}
}

func TestStateTerminal(t *testing.T) {
	tests := []struct {
		state    State
		terminal bool
	}{
		{StateIdle, false},
		{StateUploaded, false},
		{StateAnalyzing, false},
		{StateDone, true},
		{StateError, true},
	}

	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tt.state, got, tt.terminal)
		}
	}
}
