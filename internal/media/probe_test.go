package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const silentMP4Probe = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720,
     "nb_frames": "300", "avg_frame_rate": "30/1", "r_frame_rate": "30/1", "duration": "10.000000"}
  ],
  "format": {"duration": "10.000000"}
}`

const mkvWithAudioProbe = `{
  "streams": [
    {"codec_type": "video", "codec_name": "vp9", "width": 640, "height": 480,
     "avg_frame_rate": "25/1", "r_frame_rate": "25/1"},
    {"codec_type": "audio", "codec_name": "opus"}
  ],
  "format": {"duration": "4.000000"}
}`

// Video track is 10 s, the audio track runs for 20 s.
const mkvLongAudioProbe = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720,
     "avg_frame_rate": "30/1", "r_frame_rate": "30/1",
     "tags": {"DURATION": "00:00:10.000000000"}},
    {"codec_type": "audio", "codec_name": "opus",
     "tags": {"DURATION": "00:00:20.000000000"}}
  ],
  "format": {"duration": "20.000000"}
}`

func TestParseProbe(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		hasVideo   bool
		hasAudio   bool
		frameCount int
		frameRate  float64
	}{
		{
			name:       "silent mp4 with nb_frames",
			input:      silentMP4Probe,
			hasVideo:   true,
			hasAudio:   false,
			frameCount: 300,
			frameRate:  30,
		},
		{
			name:       "mkv without nb_frames falls back to duration",
			input:      mkvWithAudioProbe,
			hasVideo:   true,
			hasAudio:   true,
			frameCount: 100,
			frameRate:  25,
		},
		{
			name:       "mkv with longer audio uses the video track duration",
			input:      mkvLongAudioProbe,
			hasVideo:   true,
			hasAudio:   true,
			frameCount: 300,
			frameRate:  30,
		},
		{
			name:     "audio only",
			input:    `{"streams": [{"codec_type": "audio", "codec_name": "aac"}], "format": {"duration": "3.5"}}`,
			hasAudio: true,
		},
		{
			name:  "empty container",
			input: `{"streams": [], "format": {}}`,
		},
		{
			name:       "ntsc rate",
			input:      `{"streams": [{"codec_type": "video", "avg_frame_rate": "30000/1001", "duration": "1.001"}], "format": {}}`,
			hasVideo:   true,
			frameCount: 30,
			frameRate:  30000.0 / 1001.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseProbe([]byte(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.hasVideo, info.HasVideo)
			assert.Equal(t, tt.hasAudio, info.HasAudio)
			assert.Equal(t, tt.frameCount, info.FrameCount)
			assert.InDelta(t, tt.frameRate, info.FrameRate, 0.001)
		})
	}
}

func TestParseProbeMiddleFrameWithinVideoTrack(t *testing.T) {
	info, err := ParseProbe([]byte(mkvLongAudioProbe))
	require.NoError(t, err)

	index, ok := MiddleFrameIndex(info.FrameCount)
	require.True(t, ok)
	assert.Equal(t, 150, index)
	assert.InDelta(t, 10.0, info.Duration, 0.001)
}

func TestParseClock(t *testing.T) {
	assert.InDelta(t, 10.0, parseClock("00:00:10.000000000"), 1e-9)
	assert.InDelta(t, 3723.5, parseClock("01:02:03.500000000"), 1e-9)
	assert.Equal(t, 0.0, parseClock(""))
	assert.Equal(t, 0.0, parseClock("10.5"))
	assert.Equal(t, 0.0, parseClock("aa:bb:cc"))
}

func TestParseProbeInvalidJSON(t *testing.T) {
	_, err := ParseProbe([]byte("Invalid data found when processing input"))
	assert.Error(t, err)
}

func TestParseRate(t *testing.T) {
	assert.Equal(t, 30.0, parseRate("30/1"))
	assert.Equal(t, 0.0, parseRate("0/0"))
	assert.Equal(t, 24.0, parseRate("24"))
	assert.Equal(t, 0.0, parseRate(""))
}
