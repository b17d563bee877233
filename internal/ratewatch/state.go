package ratewatch

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMissingState means there is no usable persisted rate. The watcher
// refuses to guess a baseline, so this is fatal at startup.
var ErrMissingState = errors.New("no persisted rate")

// FileStore persists the last alerted rate as a single decimal in a flat
// file. The whole file is rewritten on every save; safe only under the
// single-process assumption.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted rate. A missing file or unparseable content is
// ErrMissingState.
func (s *FileStore) Load() (float64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s does not exist", ErrMissingState, s.path)
		}
		return 0, fmt.Errorf("read %s: %w", s.path, err)
	}

	text := strings.TrimSpace(string(data))
	rate, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q in %s", ErrMissingState, text, s.path)
	}

	return rate, nil
}

// Save overwrites the persisted rate.
func (s *FileStore) Save(rate float64) error {
	text := strconv.FormatFloat(rate, 'f', -1, 64)
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
