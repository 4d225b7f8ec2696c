// Package daemon wires configuration, storage, the state store, the HTTP
// API, and the reminder scheduler into one long-running process.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/jobtracker/internal/config"
	"git.home.luguber.info/inful/jobtracker/internal/metrics"
	"git.home.luguber.info/inful/jobtracker/internal/server"
	"git.home.luguber.info/inful/jobtracker/internal/storage"
	"git.home.luguber.info/inful/jobtracker/internal/store"
	"git.home.luguber.info/inful/jobtracker/internal/theme"
)

// Daemon owns the long-lived components of a serve run.
type Daemon struct {
	cfg        *config.Config
	configPath string
	registry   *prom.Registry
	driver     *storage.Driver
	store      *store.Store
	server     *server.Server
	scheduler  *Scheduler
	watcher    *ConfigWatcher
}

// New assembles the daemon from a loaded configuration. configPath may be
// empty, which disables the reload watcher.
func New(cfg *config.Config, configPath string, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}

	driver := storage.Open(storage.Options{
		Mode:     storage.Mode(cfg.Storage.Mode),
		DataDir:  cfg.DataDir,
		Logger:   logger,
		Recorder: recorder,
	})

	st := store.New(store.Options{
		Driver:          driver,
		Logger:          logger,
		SaveDelay:       cfg.Storage.SaveDelay.Value(),
		ThemePreference: theme.EnvPreference,
	})

	d := &Daemon{
		cfg:        cfg,
		configPath: configPath,
		registry:   registry,
		driver:     driver,
		store:      st,
		server:     server.New(st, logger, registry, cfg.Server.Listen),
	}

	if cfg.Reminders.On() {
		sched, err := NewScheduler(st, cfg.Reminders.Interval.Value())
		if err != nil {
			return nil, err
		}
		d.scheduler = sched
	}

	return d, nil
}

// Store exposes the state store for callers that need direct access.
func (d *Daemon) Store() *store.Store { return d.store }

// Run hydrates state and serves until ctx is cancelled. Shutdown order is
// scheduler, HTTP server (which flushes the store), then storage.
func (d *Daemon) Run(ctx context.Context) error {
	d.store.Hydrate(ctx)
	slog.Info("State hydrated", "backend", d.driver.Primary())

	if d.scheduler != nil {
		d.scheduler.Start(ctx)
	}

	if d.configPath != "" {
		watcher, err := NewConfigWatcher(d.configPath, d)
		if err != nil {
			slog.Warn("Config watcher unavailable", "error", err)
		} else {
			d.watcher = watcher
			if err := watcher.Start(ctx); err != nil {
				slog.Warn("Config watcher failed to start", "error", err)
			}
		}
	}

	err := d.server.Run(ctx)

	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.scheduler != nil {
		if stopErr := d.scheduler.Stop(); stopErr != nil {
			slog.Error("Scheduler shutdown failed", "error", stopErr)
		}
	}
	if closeErr := d.driver.Close(); closeErr != nil {
		slog.Warn("Storage close failed", "error", closeErr)
	}

	return err
}

// ReloadConfig applies a changed configuration. Only the reminder interval
// is live-reloadable; storage and listen changes need a restart.
func (d *Daemon) ReloadConfig(newCfg *config.Config) error {
	if newCfg.DataDir != d.cfg.DataDir || newCfg.Storage.Mode != d.cfg.Storage.Mode {
		slog.Warn("Storage configuration changed, restart required to apply")
	}
	if newCfg.Server.Listen != d.cfg.Server.Listen {
		slog.Warn("Listen address changed, restart required to apply")
	}

	if d.scheduler != nil && newCfg.Reminders.On() &&
		newCfg.Reminders.Interval.Value() != d.cfg.Reminders.Interval.Value() {
		if err := d.scheduler.Reschedule(newCfg.Reminders.Interval.Value()); err != nil {
			return fmt.Errorf("reschedule reminders: %w", err)
		}
		slog.Info("Reminder interval updated", "interval", newCfg.Reminders.Interval.Value())
	}

	d.cfg = newCfg
	return nil
}

// Config returns the currently applied configuration.
func (d *Daemon) Config() *config.Config { return d.cfg }
