package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"coffeemachine/internal/domain"
)

// FileStore keeps the record as an indented JSON document.
//
// Save truncates and rewrites the file in place. There is no lock and no
// write-then-rename, so a save interrupted halfway can leave a corrupt file;
// the next Load then fails with ErrCorruptState.
type FileStore struct {
	path     string
	defaults domain.State
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by path, creating its directory.
func NewFileStore(path string, defaults domain.State) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{path: path, defaults: defaults}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.defaults, nil
		}
		return domain.State{}, fmt.Errorf("read state file: %w", err)
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.State{}, fmt.Errorf("%w: parse %s: %w", ErrCorruptState, s.path, err)
	}
	return checkLoaded(state)
}

func (s *FileStore) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
