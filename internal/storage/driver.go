// Package storage persists the tracker state across two interchangeable
// backends: SQLite as the structured primary and a flat JSON file as the
// simple fallback. The driver surface never fails: backend errors are
// logged, redirected to the other variant, and otherwise swallowed, because
// the in-memory state remains the source of truth and storage is a
// best-effort mirror.
package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/jobtracker/internal/logfields"
	"git.home.luguber.info/inful/jobtracker/internal/metrics"
	"git.home.luguber.info/inful/jobtracker/internal/retry"
	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// Mode selects how the driver picks its backend.
type Mode string

const (
	// ModeAuto probes for SQLite and falls back to the file backend.
	ModeAuto Mode = "auto"
	// ModeSQLite forces the structured backend.
	ModeSQLite Mode = "sqlite"
	// ModeFile forces the flat-file backend.
	ModeFile Mode = "file"
)

// Backend is one storage variant. Load returns (nil, nil) when nothing is
// stored.
type Backend interface {
	Name() string
	Load(ctx context.Context) (*tracker.AppState, error)
	Save(ctx context.Context, state *tracker.AppState) error
	Clear(ctx context.Context) error
}

// Driver wraps a primary backend and an optional fallback behind a surface
// that never returns errors. Backend selection happens once at
// construction and is not re-evaluated per call.
type Driver struct {
	primary  Backend
	fallback Backend
	logger   *slog.Logger
	recorder *metrics.Recorder
	policy   retry.Policy
}

// Options configure Open.
type Options struct {
	// Mode defaults to ModeAuto.
	Mode Mode
	// DataDir holds the database and state file. Defaults to ".".
	DataDir  string
	Logger   *slog.Logger
	Recorder *metrics.Recorder
}

const (
	sqliteFile = "jobtracker.db"
	stateFile  = "jobtracker-state.json"
)

// Open selects a backend per the configured mode and returns the driver.
// In auto mode a SQLite open failure silently degrades to file-only; that
// is a capability decision, not an error.
func Open(opts Options) *Driver {
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if opts.DataDir == "" {
		opts.DataDir = "."
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	file := NewFileBackend(filepath.Join(opts.DataDir, stateFile))
	if opts.Mode == ModeFile {
		d := NewDriver(file, nil, logger, opts.Recorder)
		d.policy = retry.DefaultPolicy()
		return d
	}

	sqlite, err := NewSQLiteBackend(filepath.Join(opts.DataDir, sqliteFile))
	if err != nil {
		if opts.Mode == ModeSQLite {
			logger.Error("sqlite backend unavailable, degrading to file storage", logfields.Error(err))
		} else {
			logger.Warn("sqlite backend unavailable, using file storage", logfields.Error(err))
		}
		d := NewDriver(file, nil, logger, opts.Recorder)
		d.policy = retry.DefaultPolicy()
		return d
	}
	d := NewDriver(sqlite, file, logger, opts.Recorder)
	d.policy = retry.DefaultPolicy()
	return d
}

// NewDriver wires explicit backends; tests use this to inject failing
// variants. fallback may be nil. The zero-value policy disables save
// retries; Open installs the default policy.
func NewDriver(primary, fallback Backend, logger *slog.Logger, recorder *metrics.Recorder) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{primary: primary, fallback: fallback, logger: logger, recorder: recorder}
}

// Primary exposes the selected backend's name for status reporting.
func (d *Driver) Primary() string { return d.primary.Name() }

// Load returns the persisted state, or nil when nothing usable is stored.
// Failures are logged and redirected to the fallback, never returned.
func (d *Driver) Load(ctx context.Context) *tracker.AppState {
	state, err := d.primary.Load(ctx)
	d.recorder.Load(d.primary.Name(), err)
	if err == nil {
		return state
	}
	d.logger.Warn("state load failed", logfields.Backend(d.primary.Name()), logfields.Error(err))
	if d.fallback == nil {
		return nil
	}
	d.recorder.Fallback("load")
	state, err = d.fallback.Load(ctx)
	d.recorder.Load(d.fallback.Name(), err)
	if err != nil {
		d.logger.Warn("fallback state load failed", logfields.Backend(d.fallback.Name()), logfields.Error(err))
		return nil
	}
	return state
}

// Save persists the state. The primary is retried per the policy before
// the write redirects to the fallback. Failures are logged, never
// returned.
func (d *Driver) Save(ctx context.Context, state *tracker.AppState) {
	err := d.savePrimary(ctx, state)
	if err == nil {
		return
	}
	d.logger.Warn("state save failed", logfields.Backend(d.primary.Name()), logfields.Error(err))
	if d.fallback == nil {
		return
	}
	d.recorder.Fallback("save")
	start := time.Now()
	err = d.fallback.Save(ctx, state)
	d.recorder.Save(d.fallback.Name(), err, time.Since(start))
	if err != nil {
		d.logger.Warn("fallback state save failed", logfields.Backend(d.fallback.Name()), logfields.Error(err))
	}
}

// savePrimary attempts the primary write, retrying transient failures.
func (d *Driver) savePrimary(ctx context.Context, state *tracker.AppState) error {
	var err error
	for attempt := 0; ; attempt++ {
		start := time.Now()
		err = d.primary.Save(ctx, state)
		d.recorder.Save(d.primary.Name(), err, time.Since(start))
		if err == nil || attempt >= d.policy.MaxRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(d.policy.Delay(attempt + 1)):
		}
	}
}

// Clear removes the persisted state from the primary and, when present,
// the fallback: after a reset neither backend may resurrect old data.
func (d *Driver) Clear(ctx context.Context) {
	err := d.primary.Clear(ctx)
	d.recorder.Clear(d.primary.Name(), err)
	if err != nil {
		d.logger.Warn("state clear failed", logfields.Backend(d.primary.Name()), logfields.Error(err))
	}
	if d.fallback == nil {
		return
	}
	err = d.fallback.Clear(ctx)
	d.recorder.Clear(d.fallback.Name(), err)
	if err != nil {
		d.logger.Warn("fallback state clear failed", logfields.Backend(d.fallback.Name()), logfields.Error(err))
	}
}

// Close releases backend resources where the variant holds any.
func (d *Driver) Close() error {
	type closer interface{ Close() error }
	if c, ok := d.primary.(closer); ok {
		return c.Close()
	}
	return nil
}
