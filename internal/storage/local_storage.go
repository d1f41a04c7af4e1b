package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LocalStorage struct {
	basePath string
	logger   *zap.Logger
}

func NewLocalStorage(basePath string, logger *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, logger: logger}, nil
}

// NewWorkspace allocates a fresh directory for one analysis run.
func (ls *LocalStorage) NewWorkspace() (*Workspace, error) {
	id := uuid.New().String()
	dir := filepath.Join(ls.basePath, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	ws := &Workspace{
		ID:     id,
		Dir:    dir,
		logger: ls.logger.With(zap.String("run_id", id)),
	}
	var err error
	if ws.FramePath, err = ws.Path(FrameName); err != nil {
		return nil, err
	}
	if ws.AudioPath, err = ws.Path(AudioName); err != nil {
		return nil, err
	}
	return ws, nil
}

// Workspace holds the scratch files of a single run. VideoPath is empty
// until SaveVideo succeeds.
type Workspace struct {
	ID        string
	Dir       string
	VideoPath string
	FramePath string
	AudioPath string

	logger *zap.Logger
}

func (w *Workspace) SaveVideo(file io.Reader, info FileInfo) (string, error) {
	ext, err := VideoExtension(info.Filename)
	if err != nil {
		return "", err
	}

	fullPath, err := w.Path(videoBaseName + ext)
	if err != nil {
		return "", err
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if n == 0 {
		os.Remove(fullPath)
		return "", ErrEmptyUpload
	}

	w.VideoPath = fullPath
	return fullPath, nil
}

// Path resolves a file name inside the workspace, refusing anything that
// would escape it.
func (w *Workspace) Path(name string) (string, error) {
	cleanPath := filepath.Clean(name)
	if strings.Contains(cleanPath, "..") || filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("invalid path %q", name)
	}
	return filepath.Join(w.Dir, cleanPath), nil
}

// Cleanup removes the run's files and directory. Failures are logged and
// returned joined, callers are expected to only log them.
func (w *Workspace) Cleanup() error {
	var errs []error
	for _, path := range []string{w.VideoPath, w.AudioPath, w.FramePath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			w.logger.Warn("failed to remove temporary file", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		w.logger.Debug("temporary file removed", zap.String("path", path))
	}

	if err := os.RemoveAll(w.Dir); err != nil {
		w.logger.Warn("failed to remove workspace", zap.String("dir", w.Dir), zap.Error(err))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func VideoExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(AcceptedExtensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return ext, nil
}
