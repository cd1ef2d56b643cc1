package storage

import (
	"context"
	"sync"

	"coffeemachine/internal/domain"
)

// MemoryStore keeps the record in process memory. It is lost on restart and
// never shared between processes.
type MemoryStore struct {
	mu    sync.RWMutex
	state domain.State
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding initial.
func NewMemoryStore(initial domain.State) *MemoryStore {
	return &MemoryStore{state: initial}
}

func (s *MemoryStore) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

func (s *MemoryStore) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
