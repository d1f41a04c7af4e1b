package storage

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported video format")
	ErrEmptyUpload       = errors.New("uploaded video is empty")
)

// AcceptedExtensions are the containers the upload form offers.
var AcceptedExtensions = []string{".mp4", ".mov", ".avi", ".mkv"}

const (
	videoBaseName = "temp_video"
	FrameName     = "temp_frame.jpg"
	AudioName     = "temp_audio.wav"
)

type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

type Storage interface {
	NewWorkspace() (*Workspace, error)
}
