package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"coffeemachine/internal/domain"
)

// machineRowID is the primary key of the only row in machine_state.
const machineRowID = 1

const machineSchema = `
CREATE TABLE IF NOT EXISTS machine_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	water_ml INTEGER NOT NULL,
	coffee_g INTEGER NOT NULL,
	water_capacity_ml INTEGER NOT NULL,
	coffee_capacity_g INTEGER NOT NULL
)`

// SQLiteStore keeps the record in a single-row SQLite table.
//
// Every Load and Save opens its own connection and re-ensures the schema and
// the default row before touching it, so a fresh database file needs no
// separate migration step.
type SQLiteStore struct {
	path     string
	defaults domain.State
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore returns a store backed by the database at path, creating its
// directory.
func NewSQLiteStore(path string, defaults domain.State) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &SQLiteStore{path: path, defaults: defaults}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (domain.State, error) {
	db, err := s.open(ctx)
	if err != nil {
		return domain.State{}, err
	}
	defer db.Close()

	const query = `
SELECT water_ml, coffee_g, water_capacity_ml, coffee_capacity_g
FROM machine_state
WHERE id = ?`

	var state domain.State
	if err := db.QueryRowContext(ctx, query, machineRowID).Scan(
		&state.WaterML,
		&state.CoffeeG,
		&state.WaterCapacityML,
		&state.CoffeeCapacityG,
	); err != nil {
		return domain.State{}, fmt.Errorf("read machine state: %w", err)
	}
	return checkLoaded(state)
}

func (s *SQLiteStore) Save(ctx context.Context, state domain.State) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	const update = `
UPDATE machine_state SET
	water_ml = ?,
	coffee_g = ?,
	water_capacity_ml = ?,
	coffee_capacity_g = ?
WHERE id = ?`

	if _, err := db.ExecContext(ctx, update,
		state.WaterML,
		state.CoffeeG,
		state.WaterCapacityML,
		state.CoffeeCapacityG,
		machineRowID,
	); err != nil {
		return fmt.Errorf("write machine state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return nil }

// open connects and makes sure the table and its single row exist.
func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open machine db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, machineSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize machine db schema: %w", err)
	}

	const seed = `
INSERT OR IGNORE INTO machine_state (id, water_ml, coffee_g, water_capacity_ml, coffee_capacity_g)
VALUES (?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, seed,
		machineRowID,
		s.defaults.WaterML,
		s.defaults.CoffeeG,
		s.defaults.WaterCapacityML,
		s.defaults.CoffeeCapacityG,
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed machine state: %w", err)
	}

	return db, nil
}
