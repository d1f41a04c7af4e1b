package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// ErrFrameUnavailable means the container could not be opened, has no video
// stream, or has zero frames.
var ErrFrameUnavailable = errors.New("frame unavailable")

type FrameExtractor struct {
	ffmpegPath string
	probe      ProbeFunc
	logger     *zap.Logger
}

func NewFrameExtractor(ffmpegPath string, probe ProbeFunc, logger *zap.Logger) (*FrameExtractor, error) {
	path, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	logger.Info("found ffmpeg", zap.String("path", path))

	if probe == nil {
		probe = FFProbe
	}
	return &FrameExtractor{ffmpegPath: path, probe: probe, logger: logger}, nil
}

// MiddleFrameIndex returns totalFrames/2, or false when there is no frame.
func MiddleFrameIndex(totalFrames int) (int, bool) {
	if totalFrames <= 0 {
		return 0, false
	}
	return totalFrames / 2, true
}

// ExtractMiddleFrame decodes the frame at index total/2. It does not look
// for blank or corrupt frames.
func (fe *FrameExtractor) ExtractMiddleFrame(ctx context.Context, videoPath string) (image.Image, int, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, 0, fmt.Errorf("%w: video file not accessible: %v", ErrFrameUnavailable, err)
	}

	raw, err := fe.probe(ctx, videoPath)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFrameUnavailable, err)
	}
	info, err := ParseProbe(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFrameUnavailable, err)
	}
	if !info.HasVideo {
		return nil, 0, fmt.Errorf("%w: no video stream", ErrFrameUnavailable)
	}

	index, ok := MiddleFrameIndex(info.FrameCount)
	if !ok {
		return nil, 0, fmt.Errorf("%w: video contains no frames", ErrFrameUnavailable)
	}

	fe.logger.Debug("extracting middle frame",
		zap.String("video", videoPath),
		zap.Int("total_frames", info.FrameCount),
		zap.Int("index", index),
	)

	data, err := fe.extractFrameAt(ctx, videoPath, index)
	if err != nil {
		return nil, index, fmt.Errorf("%w: %v", ErrFrameUnavailable, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, index, fmt.Errorf("%w: failed to decode frame: %v", ErrFrameUnavailable, err)
	}
	return img, index, nil
}

func (fe *FrameExtractor) extractFrameAt(ctx context.Context, videoPath string, index int) ([]byte, error) {
	args := []string{
		"-v", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf(`select=eq(n\,%d)`, index),
		"-vsync", "0",
		"-frames:v", "1",
		"-q:v", "2",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, fe.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		fe.logger.Warn("ffmpeg frame extraction failed", zap.String("stderr", stderr.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to extract frame %d: %w", index, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("frame %d could not be decoded", index)
	}
	return stdout.Bytes(), nil
}

// SaveJPEG persists a decoded frame so it can be handed to the analyzer by
// path. It returns the encoded bytes for inline display.
func SaveJPEG(img image.Image, path string) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write frame: %w", err)
	}
	return buf.Bytes(), nil
}
