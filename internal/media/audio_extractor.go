package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

const speechSampleRate = 16000

type AudioExtractor struct {
	ffmpegPath string
	probe      ProbeFunc
	logger     *zap.Logger
}

func NewAudioExtractor(ffmpegPath string, probe ProbeFunc, logger *zap.Logger) *AudioExtractor {
	if probe == nil {
		probe = FFProbe
	}
	return &AudioExtractor{ffmpegPath: ffmpegPath, probe: probe, logger: logger}
}

// ExtractAudio writes the first audio track as 16 kHz mono PCM WAV. It
// returns "" and no error when the video has no audio stream.
func (ae *AudioExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) (string, error) {
	raw, err := ae.probe(ctx, videoPath)
	if err != nil {
		return "", fmt.Errorf("probe audio: %w", err)
	}
	info, err := ParseProbe(raw)
	if err != nil {
		return "", err
	}
	if !info.HasAudio {
		ae.logger.Info("no audio track found", zap.String("video", videoPath))
		return "", nil
	}

	cmd := exec.CommandContext(ctx, ae.ffmpegPath, audioArgs(videoPath, audioPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(audioPath)
		if strings.Contains(stderr.String(), "does not contain any stream") {
			ae.logger.Info("no audio stream could be mapped", zap.String("video", videoPath))
			return "", nil
		}
		return "", fmt.Errorf("ffmpeg error: %w, stderr: %s", err, stderr.String())
	}

	stat, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("audio file missing after extraction: %w", err)
	}
	if stat.Size() == 0 {
		os.Remove(audioPath)
		return "", fmt.Errorf("extracted audio is empty")
	}

	ae.logger.Info("audio extracted",
		zap.String("path", audioPath),
		zap.String("source_codec", info.AudioCodec),
		zap.Int64("bytes", stat.Size()),
	)
	return audioPath, nil
}

func audioArgs(videoPath, audioPath string) []string {
	return ffmpeg.Input(videoPath).
		Output(audioPath, ffmpeg.KwArgs{
			"acodec": "pcm_s16le",
			"ar":     speechSampleRate,
			"ac":     1,
		}).
		OverWriteOutput().
		GetArgs()
}
