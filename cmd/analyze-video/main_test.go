package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Patasheva/congrats-analyzer/internal/ai"
	"github.com/Patasheva/congrats-analyzer/internal/locale"
	"github.com/Patasheva/congrats-analyzer/internal/models"
	"github.com/Patasheva/congrats-analyzer/internal/persona"
	"github.com/Patasheva/congrats-analyzer/internal/pipeline"
)

func TestPrintOutcome(t *testing.T) {
	raw := `{"number_of_people": "1", "recording_location": "kitchen", "motivation": "personal",
		"occasion": "birthday", "viral_mood": "happy", "relationship": "mother"}`
	out := &pipeline.Outcome{
		State:      models.StateDone,
		FrameIndex: 42,
		FaceCount:  2,
		Transcript: ai.Transcript{Text: "happy birthday mum", Language: "ENGLISH"},
		Raw:        raw,
		Persona:    persona.Parse(raw),
		Messages:   []pipeline.Message{{Level: pipeline.LevelSuccess, Key: locale.FrameExtracted}},
	}

	var b strings.Builder
	require.NoError(t, printOutcome(&b, locale.New(locale.English), out, false))

	text := b.String()
	assert.Contains(t, text, "[success] 🖼️ Frame extracted")
	assert.Contains(t, text, "Frame: #42")
	assert.Contains(t, text, `"happy birthday mum" (ENGLISH)`)
	assert.Contains(t, text, "Face detection counted 2 face(s).")
	assert.Contains(t, text, "📍 Recording Location: kitchen")
}

func TestPrintOutcomeInputError(t *testing.T) {
	out := &pipeline.Outcome{
		State:    models.StateError,
		Messages: []pipeline.Message{{Level: pipeline.LevelError, Key: locale.FrameUnavailable}},
	}

	var b strings.Builder
	require.NoError(t, printOutcome(&b, locale.New(locale.French), out, false))

	assert.Equal(t, "[error] ⚠️ Impossible d'extraire l'image.\n", b.String())
}
