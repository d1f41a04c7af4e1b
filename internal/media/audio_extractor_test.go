package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractAudioNoAudioStream(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "temp_audio.wav")
	ae := NewAudioExtractor("ffmpeg", stubProbe(silentMP4Probe, nil), zap.NewNop())

	path, err := ae.ExtractAudio(context.Background(), "silent.mp4", audioPath)

	require.NoError(t, err)
	assert.Empty(t, path)
	_, statErr := os.Stat(audioPath)
	assert.True(t, os.IsNotExist(statErr), "no wav file should be created")
}

func TestExtractAudioProbeFailure(t *testing.T) {
	ae := NewAudioExtractor("ffmpeg", stubProbe("", assert.AnError), zap.NewNop())

	path, err := ae.ExtractAudio(context.Background(), "broken.mp4", filepath.Join(t.TempDir(), "a.wav"))

	assert.Error(t, err)
	assert.Empty(t, path)
}

func TestAudioArgs(t *testing.T) {
	args := audioArgs("in.mov", "out.wav")

	assert.Contains(t, args, "pcm_s16le")
	assert.Contains(t, args, "16000")
	assert.Contains(t, args, "-y")
	assert.Contains(t, args, "in.mov")
	assert.Contains(t, args, "out.wav")
}

func TestExtractAudioWithFFmpeg(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ffmpeg test in short mode")
	}

	t.Run("with audio track", func(t *testing.T) {
		video := makeTestVideo(t, true)
		audioPath := filepath.Join(t.TempDir(), "temp_audio.wav")

		path, err := NewAudioExtractor("ffmpeg", nil, zap.NewNop()).ExtractAudio(context.Background(), video, audioPath)
		require.NoError(t, err)
		assert.Equal(t, audioPath, path)

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, stat.Size(), int64(44))
	})

	t.Run("silent video", func(t *testing.T) {
		video := makeTestVideo(t, false)
		audioPath := filepath.Join(t.TempDir(), "temp_audio.wav")

		path, err := NewAudioExtractor("ffmpeg", nil, zap.NewNop()).ExtractAudio(context.Background(), video, audioPath)
		require.NoError(t, err)
		assert.Empty(t, path)
	})
}
