package media

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const defaultProbeTimeout = 30 * time.Second

// VideoInfo is the subset of ffprobe output the pipeline cares about.
type VideoInfo struct {
	HasVideo   bool
	FrameCount int
	Width      int
	Height     int
	FrameRate  float64
	Duration   float64
	HasAudio   bool
	AudioCodec string
}

// ProbeFunc returns ffprobe's JSON description of a media file.
type ProbeFunc func(ctx context.Context, path string) ([]byte, error)

// FFProbe shells out to ffprobe through ffmpeg-go. The context deadline, when
// present, bounds the probe.
func FFProbe(ctx context.Context, path string) ([]byte, error) {
	timeout := defaultProbeTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, ctx.Err()
		}
	}

	out, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	return []byte(out), nil
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	NbFrames     string `json:"nb_frames"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	Duration     string `json:"duration"`
	Tags         struct {
		Duration string `json:"DURATION"`
	} `json:"tags"`
}

func ParseProbe(data []byte) (*VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &VideoInfo{}
	formatDuration := parseFloat(out.Format.Duration)

	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.HasVideo {
				continue
			}
			info.HasVideo = true
			info.Width = s.Width
			info.Height = s.Height
			info.FrameRate = parseRate(s.AvgFrameRate)
			if info.FrameRate == 0 {
				info.FrameRate = parseRate(s.RFrameRate)
			}
			info.Duration = parseFloat(s.Duration)
			if info.Duration == 0 {
				// Matroska keeps the per-track length in tags; the format
				// duration covers the longest track, which may be audio.
				info.Duration = parseClock(s.Tags.Duration)
			}
			if info.Duration == 0 {
				info.Duration = formatDuration
			}
			info.FrameCount = frameCount(s.NbFrames, info.Duration, info.FrameRate)
		case "audio":
			if info.HasAudio {
				continue
			}
			info.HasAudio = true
			info.AudioCodec = s.CodecName
		}
	}

	if info.Duration == 0 {
		info.Duration = formatDuration
	}
	return info, nil
}

// Containers like mkv and webm do not carry nb_frames; estimate it from the
// stream duration instead.
func frameCount(nbFrames string, duration, fps float64) int {
	if n, err := strconv.Atoi(nbFrames); err == nil && n > 0 {
		return n
	}
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Floor(duration*fps + 1e-6))
}

// parseClock reads an HH:MM:SS.fraction duration as written in Matroska tags.
func parseClock(s string) float64 {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 {
		return 0
	}
	sec := parseFloat(parts[2])
	if sec < 0 {
		return 0
	}
	return float64(h)*3600 + float64(m)*60 + sec
}

func parseRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		return parseFloat(rate)
	}
	n, d := parseFloat(num), parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
