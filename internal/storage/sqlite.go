package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// stateKey is the single fixed key the whole AppState lives under.
const stateKey = "app-state"

// SQLiteBackend is the structured storage variant: one kv table holding the
// entire state as one JSON blob under a fixed key. Each operation runs in
// its own transaction, read-only for loads.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating on first use) the database at path.
// Use ":memory:" for tests.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time avoids SQLITE_BUSY on concurrent saves.
	db.SetMaxOpenConns(1)

	b := &SQLiteBackend{db: db}
	if err := b.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := b.db.Exec(schema)
	return err
}

// Name identifies the backend in logs and metrics.
func (b *SQLiteBackend) Name() string { return "sqlite" }

// Load reads the stored state, or returns (nil, nil) when nothing is stored.
func (b *SQLiteBackend) Load(ctx context.Context) (*tracker.AppState, error) {
	tx, err := b.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw []byte
	err = tx.QueryRowContext(ctx, "SELECT value FROM app_state WHERE key = ?", stateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query state: %w", err)
	}

	var state tracker.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}

// Save writes the state as one opaque value under the fixed key.
func (b *SQLiteBackend) Save(ctx context.Context, state *tracker.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, stateKey, raw)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Clear removes the stored state.
func (b *SQLiteBackend) Clear(ctx context.Context) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM app_state WHERE key = ?", stateKey); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
