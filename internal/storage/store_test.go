package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeemachine/internal/config"
	"coffeemachine/internal/domain"
)

// backends returns a fresh instance of every store kind, each rooted in its
// own temp directory.
func backends(t *testing.T, defaults domain.State) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileStore(filepath.Join(dir, "state.json"), defaults)
	require.NoError(t, err)
	sqlite, err := NewSQLiteStore(filepath.Join(dir, "state.db"), defaults)
	require.NoError(t, err)
	bolt, err := NewBoltStore(filepath.Join(dir, "state.bolt"), defaults)
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(defaults),
		"json":   file,
		"sqlite": sqlite,
		"bolt":   bolt,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStores_LoadBeforeSaveReturnsDefaults(t *testing.T) {
	defaults := domain.NewStateWithCapacity(1500, 300)

	for name, store := range backends(t, defaults) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := store.Load(ctx)
			require.NoError(t, err)
			second, err := store.Load(ctx)
			require.NoError(t, err)

			assert.Equal(t, defaults, first)
			assert.Equal(t, first, second, "loading twice without a save must agree")
		})
	}
}

func TestStores_SaveThenLoad(t *testing.T) {
	saved := domain.State{WaterML: 976, CoffeeG: 92, WaterCapacityML: 2000, CoffeeCapacityG: 500}

	for name, store := range backends(t, domain.NewState()) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Save(ctx, saved))
			got, err := store.Load(ctx)

			require.NoError(t, err)
			assert.Equal(t, saved, got)

			// A second save replaces the first.
			next := saved
			next.WaterML = 952
			require.NoError(t, store.Save(ctx, next))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, next, got)
		})
	}
}

func TestStores_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, store := range backends(t, domain.NewState()) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx)
			assert.Error(t, err)
			assert.Error(t, store.Save(ctx, domain.NewState()))
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	defaults := domain.NewState()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		want    any
		wantErr bool
	}{
		{name: "empty backend is memory", cfg: config.StorageConfig{}, want: &MemoryStore{}},
		{name: "memory", cfg: config.StorageConfig{Backend: config.BackendMemory}, want: &MemoryStore{}},
		{
			name: "json",
			cfg:  config.StorageConfig{Backend: config.BackendJSON, JSONPath: filepath.Join(dir, "a", "state.json")},
			want: &FileStore{},
		},
		{
			name: "sqlite",
			cfg:  config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(dir, "b", "state.db")},
			want: &SQLiteStore{},
		},
		{
			name: "bolt",
			cfg:  config.StorageConfig{Backend: config.BackendBolt, BoltPath: filepath.Join(dir, "c", "state.bolt")},
			want: &BoltStore{},
		},
		{name: "unknown", cfg: config.StorageConfig{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.cfg, defaults)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			assert.IsType(t, tt.want, store)
		})
	}
}
