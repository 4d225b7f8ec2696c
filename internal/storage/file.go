package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// FileBackend is the simple key-value variant: the whole state serialized
// as one JSON blob in a single file. It is the fallback when SQLite is
// unavailable and the redirect target when a SQLite operation fails.
type FileBackend struct {
	path string
}

// NewFileBackend stores state at path; parent directories are created on
// the first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Name identifies the backend in logs and metrics.
func (b *FileBackend) Name() string { return "file" }

// Load reads the stored state. A missing file means no stored data. A
// corrupt file also means no stored data: treating parse failures as
// absence makes bad storage self-healing instead of fatal.
func (b *FileBackend) Load(ctx context.Context) (*tracker.AppState, error) {
	raw, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state tracker.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, nil
	}
	return &state, nil
}

// Save writes the state atomically via a temp file and rename, so a crash
// mid-write never leaves a half-written state behind.
func (b *FileBackend) Save(ctx context.Context, state *tracker.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Clear removes the state file; a missing file is already clear.
func (b *FileBackend) Clear(ctx context.Context) error {
	err := os.Remove(b.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}
