// Package storage persists the machine's single state record.
//
// Every backend holds exactly one logical record and hands out the default
// state when nothing has been saved yet. None of them coordinate a load with
// the save that follows it; callers that need read-modify-write atomicity
// must serialize it themselves.
package storage

import (
	"context"
	"errors"
	"fmt"

	"coffeemachine/internal/config"
	"coffeemachine/internal/domain"
)

// ErrCorruptState is returned when a persisted record cannot be decoded or
// breaks the machine invariants.
var ErrCorruptState = errors.New("corrupt machine state")

// Store loads and saves the machine record.
type Store interface {
	// Load returns the persisted state, or the default state when nothing
	// has been saved. A missing record is never an error.
	Load(ctx context.Context) (domain.State, error)

	// Save replaces the persisted state.
	Save(ctx context.Context, state domain.State) error

	// Close releases any resources held by the store.
	Close() error
}

// Open builds the backend selected by cfg. defaults is the record handed out
// before the first save.
func Open(cfg config.StorageConfig, defaults domain.State) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(defaults), nil
	case config.BackendJSON:
		return NewFileStore(cfg.JSONPath, defaults)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath, defaults)
	case config.BackendBolt:
		return NewBoltStore(cfg.BoltPath, defaults)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func checkLoaded(s domain.State) (domain.State, error) {
	if err := s.Validate(); err != nil {
		return domain.State{}, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return s, nil
}
