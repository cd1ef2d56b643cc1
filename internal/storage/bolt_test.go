package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"coffeemachine/internal/domain"
)

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state.bolt")
	want := domain.State{WaterML: 120, CoffeeG: 30, WaterCapacityML: 2000, CoffeeCapacityG: 500}

	a, err := NewBoltStore(path, domain.NewState())
	require.NoError(t, err)
	require.NoError(t, a.Save(context.Background(), want))
	require.NoError(t, a.Close())

	b, err := NewBoltStore(path, domain.NewState())
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBoltStore_CorruptValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bolt")
	store, err := NewBoltStore(path, domain.NewState())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(machineBucket).Put(stateKey, []byte("not json"))
	}))

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestBoltStore_CloseTwice(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "state.bolt"), domain.NewState())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.NotPanics(t, func() { _ = store.Close() })
}
