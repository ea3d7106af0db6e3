// Package store persists the serialized classifier artifact.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// FileStore is a filesystem implementation of the ModelStore interface. The
// artifact lives at a single fixed path; absence is a normal condition that
// callers resolve by retraining.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a new file-backed model store
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Load returns the persisted artifact, or core.ErrModelNotFound when none
// exists
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return data, nil
}

// Save persists the artifact. The write goes through a temp file and a
// rename so racing writers overwrite each other whole, never partially.
func (s *FileStore) Save(artifact []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}

	if _, err := tmp.Write(artifact); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace model artifact: %w", err)
	}

	s.logger.Debug("Persisted model artifact",
		zap.String("path", s.path),
		zap.Int("size", len(artifact)))
	return nil
}
