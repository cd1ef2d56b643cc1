package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"coffeemachine/internal/domain"
)

var (
	machineBucket = []byte("machine")
	stateKey      = []byte("state")
)

// BoltStore keeps the record as a JSON value in a bbolt database. Unlike the
// other file-backed stores it holds the database open, and bbolt's file lock
// keeps a second process out until Close.
type BoltStore struct {
	db       *bolt.DB
	defaults domain.State
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string, defaults domain.State) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store at %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(machineBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure machine bucket: %w", err)
	}

	return &BoltStore{db: db, defaults: defaults}, nil
}

func (s *BoltStore) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}

	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(machineBucket).Get(stateKey); v != nil {
			// v is only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return domain.State{}, fmt.Errorf("read machine state: %w", err)
	}
	if data == nil {
		return s.defaults, nil
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.State{}, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return checkLoaded(state)
}

func (s *BoltStore) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(machineBucket).Put(stateKey, data)
	}); err != nil {
		return fmt.Errorf("write machine state: %w", err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
