package store

import "git.home.luguber.info/inful/jobtracker/internal/tracker"

// State returns a snapshot of the full state. Snapshots are deep copies;
// collaborators must not expect later actions to show through them.
func (s *Store) State() *tracker.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Settings returns the current settings.
func (s *Store) Settings() tracker.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// Applications returns the application list with the current filter and
// sort settings applied.
func (s *Store) Applications() []tracker.JobApplication {
	s.mu.Lock()
	settings := s.state.Settings
	snapshot := s.state.Clone().Applications
	now := s.now()
	s.mu.Unlock()

	filtered := tracker.FilterApplications(snapshot, tracker.Filters{
		Status: settings.FilterStatus,
		Range:  settings.FilterRange,
		Search: settings.Search,
	}, now)
	return tracker.SortApplications(filtered, settings.Sort)
}

// Stats computes the dashboard aggregates over the current applications.
func (s *Store) Stats() tracker.DashboardStats {
	s.mu.Lock()
	snapshot := s.state.Clone().Applications
	now := s.now()
	s.mu.Unlock()

	return tracker.GetDashboardStats(snapshot, now)
}

// Tasks returns a snapshot of all tasks.
func (s *Store) Tasks() []tracker.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone().Tasks
}

// TasksForApplication returns the tasks referencing the given application,
// in list order.
func (s *Store) TasksForApplication(applicationID string) []tracker.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tracker.Task, 0)
	for _, task := range s.state.Tasks {
		if task.ApplicationID == applicationID {
			out = append(out, task)
		}
	}
	return out
}

// TasksByApplication groups all tasks by their application id, including
// the unassigned sentinel group.
func (s *Store) TasksByApplication() map[string][]tracker.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]tracker.Task)
	for _, task := range s.state.Tasks {
		out[task.ApplicationID] = append(out[task.ApplicationID], task)
	}
	return out
}
