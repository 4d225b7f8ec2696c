// Package store owns the live session state and wires the pure domain
// operations to a debounced persistence policy. Every mutating action
// computes the new state synchronously under one mutex, then schedules a
// coalesced save: the in-memory state is the source of truth and storage is
// a best-effort mirror that may lag by up to the debounce window.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/jobtracker/internal/storage"
	"git.home.luguber.info/inful/jobtracker/internal/theme"
	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// DefaultSaveDelay is the debounce window: actions arriving within it
// coalesce into a single persisted write.
const DefaultSaveDelay = 250 * time.Millisecond

// Options configure New. Only Driver is required.
type Options struct {
	Driver *storage.Driver
	Logger *slog.Logger
	// SaveDelay overrides the debounce window; tests shrink it.
	SaveDelay time.Duration
	// ThemePreference supplies the environment theme when none is stored.
	ThemePreference theme.Preference
	// ApplyTheme is invoked whenever the effective theme changes, at
	// hydrate, import, reset, and SetTheme.
	ApplyTheme func(tracker.ThemeMode)
	// Now injects the clock; defaults to time.Now.
	Now func() time.Time
}

// Store is the single action surface UI collaborators talk to. One
// process-wide instance serves production; tests construct their own so no
// two cases share timers or storage.
type Store struct {
	driver     *storage.Driver
	logger     *slog.Logger
	saveDelay  time.Duration
	themePref  theme.Preference
	applyTheme func(tracker.ThemeMode)
	now        func() time.Time

	mu        sync.Mutex
	state     *tracker.AppState
	hydrated  bool
	saveTimer *time.Timer
}

// New builds a store with default state; call Hydrate to load persisted
// data.
func New(opts Options) *Store {
	s := &Store{
		driver:     opts.Driver,
		logger:     opts.Logger,
		saveDelay:  opts.SaveDelay,
		themePref:  opts.ThemePreference,
		applyTheme: opts.ApplyTheme,
		now:        opts.Now,
		state:      tracker.DefaultState(),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.saveDelay <= 0 {
		s.saveDelay = DefaultSaveDelay
	}
	if s.themePref == nil {
		s.themePref = theme.EnvPreference
	}
	if s.applyTheme == nil {
		s.applyTheme = func(tracker.ThemeMode) {}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Hydrate loads persisted state into the store. Nothing stored means
// defaults. The effective theme prefers the stored value, else the
// environment preference, and is applied immediately.
func (s *Store) Hydrate(ctx context.Context) {
	loaded := s.driver.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if loaded != nil {
		s.state = tracker.NormalizeState(loaded)
	} else {
		s.state = tracker.DefaultState()
	}
	resolved := theme.Resolve(s.state.Settings.Theme, s.themePref)
	s.state.Settings.Theme = resolved
	s.hydrated = true
	s.applyTheme(resolved)
	s.logger.Debug("store hydrated",
		"applications", len(s.state.Applications),
		"tasks", len(s.state.Tasks),
		"theme", resolved)
}

// Hydrated reports whether Hydrate or an import has run.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// AddApplication creates an application from the patch and prepends it.
func (s *Store) AddApplication(patch tracker.ApplicationPatch) tracker.JobApplication {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := tracker.NewApplication(patch, s.now())
	s.state.Applications = tracker.AddApplication(s.state.Applications, created)
	s.scheduleSaveLocked()
	return created
}

// UpdateApplication merges the patch over the matching application. An
// unknown id is a silent no-op.
func (s *Store) UpdateApplication(id string, patch tracker.ApplicationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := tracker.UpdateApplication(s.state.Applications, id, patch, s.now())
	if !s.changedApplications(next, id, "update") {
		return
	}
	s.state.Applications = next
	s.scheduleSaveLocked()
}

// DeleteApplication removes the application and every task referencing it
// in the same state update, so no observer ever sees orphan tasks.
func (s *Store) DeleteApplication(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Applications = tracker.DeleteApplication(s.state.Applications, id)
	s.state.Tasks = tracker.DeleteTasksForApplication(s.state.Tasks, id)
	s.scheduleSaveLocked()
}

// ChangeStatus transitions the application, appending history and applying
// the follow-up policy.
func (s *Store) ChangeStatus(id string, status tracker.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := tracker.ChangeStatus(s.state.Applications, id, status, s.now())
	if !s.changedApplications(next, id, "change status") {
		return
	}
	s.state.Applications = next
	s.scheduleSaveLocked()
}

// AddTask creates a task from the patch and prepends it.
func (s *Store) AddTask(patch tracker.TaskPatch) tracker.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := tracker.NewTask(patch, s.now())
	s.state.Tasks = tracker.AddTask(s.state.Tasks, created)
	s.scheduleSaveLocked()
	return created
}

// UpdateTask merges the patch over the matching task.
func (s *Store) UpdateTask(id string, patch tracker.TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := tracker.UpdateTask(s.state.Tasks, id, patch, s.now())
	if !s.changedTasks(next, id) {
		return
	}
	s.state.Tasks = next
	s.scheduleSaveLocked()
}

// DeleteTask removes the task with the given id.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tasks = tracker.DeleteTask(s.state.Tasks, id)
	s.scheduleSaveLocked()
}

// FilterSettings are the list preferences updated together from the UI.
type FilterSettings struct {
	Sort   tracker.SortOption  `json:"sort"`
	Status string              `json:"status"`
	Range  tracker.FilterRange `json:"range"`
	Search string              `json:"search"`
}

// SetFilters updates sort, status filter, range filter, and search.
func (s *Store) SetFilters(filters FilterSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings.Sort = filters.Sort
	s.state.Settings.FilterStatus = filters.Status
	s.state.Settings.FilterRange = filters.Range
	s.state.Settings.Search = filters.Search
	s.scheduleSaveLocked()
}

// SetTheme switches the theme and applies it immediately.
func (s *Store) SetTheme(mode tracker.ThemeMode) {
	if !mode.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings.Theme = mode
	s.applyTheme(mode)
	s.scheduleSaveLocked()
}

// SetWeeklyGoal updates the weekly application goal, clamped to 1-30.
func (s *Store) SetWeeklyGoal(goal int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings.WeeklyGoal = tracker.ClampWeeklyGoal(goal)
	s.scheduleSaveLocked()
}

// ExportBackup snapshots the current state into the versioned backup
// format.
func (s *Store) ExportBackup() *tracker.BackupFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tracker.BuildBackup(s.state, s.now())
}

// ImportBackup replaces the entire live state from a backup. Validation
// failure returns an error and leaves the current state untouched. A
// successful import marks the store hydrated, applies the restored theme,
// and schedules a save so the data survives a restart without further
// edits.
func (s *Store) ImportBackup(backup *tracker.BackupFile) error {
	if err := backup.Validate(); err != nil {
		return err
	}
	restored := tracker.RestoreBackup(backup)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = restored
	s.hydrated = true
	s.applyTheme(restored.Settings.Theme)
	s.scheduleSaveLocked()
	return nil
}

// Reset cancels any pending save, restores defaults synchronously, and
// clears the persisted store. The timer cancel comes first so a stale
// debounced write can never resurrect cleared data. Reset always succeeds
// from the caller's perspective.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.cancelScheduledLocked()
	s.state = tracker.DefaultState()
	s.hydrated = true
	s.applyTheme(s.state.Settings.Theme)
	s.mu.Unlock()

	s.driver.Clear(ctx)
}

// Flush bypasses the debounce and persists immediately. Lifecycle hooks
// call it before the process may be suspended or stopped, so the last
// window of edits is never lost.
func (s *Store) Flush(ctx context.Context) {
	s.mu.Lock()
	s.cancelScheduledLocked()
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.driver.Save(ctx, snapshot)
}

// scheduleSaveLocked arms the debounced save with a snapshot of the current
// state. An already pending timer is cancelled first, so rapid actions
// coalesce into one write and two timers can never overlap. Callers hold
// s.mu.
func (s *Store) scheduleSaveLocked() {
	s.cancelScheduledLocked()
	snapshot := s.state.Clone()
	s.saveTimer = time.AfterFunc(s.saveDelay, func() {
		s.driver.Save(context.Background(), snapshot)
	})
}

// cancelScheduledLocked stops a pending debounced save, if any. An already
// started write is not cancelled; a following Clear is authoritative.
func (s *Store) cancelScheduledLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
}

// changedApplications reports whether the domain operation found its
// target. Unknown ids stay silent no-ops; a debug line keeps stale ids
// diagnosable.
func (s *Store) changedApplications(next []tracker.JobApplication, id, action string) bool {
	for i := range next {
		if next[i].ID == id {
			return true
		}
	}
	s.logger.Debug("application "+action+" for unknown id", "id", id)
	return false
}

func (s *Store) changedTasks(next []tracker.Task, id string) bool {
	for i := range next {
		if next[i].ID == id {
			return true
		}
	}
	s.logger.Debug("task update for unknown id", "id", id)
	return false
}
