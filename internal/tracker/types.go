package tracker

import "time"

// Status represents the lifecycle state of a job application.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
)

// AllStatuses lists every status in its fixed ranking order. The order is
// load-bearing: status sorting and stats bucketing both rely on it.
var AllStatuses = []Status{
	StatusDraft,
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the application lifecycle. Moving to a
// terminal status clears any pending follow-up date.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusWithdrawn
}

// SortOption selects a sorting strategy for application lists.
type SortOption string

const (
	SortByCreated  SortOption = "createdAt"
	SortByStatus   SortOption = "status"
	SortByFollowUp SortOption = "followUp"
)

// Valid reports whether o is a known sort option.
func (o SortOption) Valid() bool {
	return o == SortByCreated || o == SortByStatus || o == SortByFollowUp
}

// FilterRange names a trailing time window for filtering by creation date.
type FilterRange string

const (
	RangeAll  FilterRange = "all"
	Range7d   FilterRange = "7d"
	Range14d  FilterRange = "14d"
	Range30d  FilterRange = "30d"
	Range90d  FilterRange = "90d"
	Range180d FilterRange = "180d"
	Range365d FilterRange = "365d"
)

// Days returns the window size in days, or 0 for RangeAll and unknown values.
func (r FilterRange) Days() int {
	switch r {
	case Range7d:
		return 7
	case Range14d:
		return 14
	case Range30d:
		return 30
	case Range90d:
		return 90
	case Range180d:
		return 180
	case Range365d:
		return 365
	default:
		return 0
	}
}

// Valid reports whether r is a known range value.
func (r FilterRange) Valid() bool {
	return r == RangeAll || r.Days() > 0
}

// ThemeMode is the UI color scheme persisted in settings.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Valid reports whether m is a known theme.
func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark
}

// TaskType classifies a scheduled task.
type TaskType string

const (
	TaskTypeTask      TaskType = "task"
	TaskTypeInterview TaskType = "interview"
	TaskTypeReminder  TaskType = "reminder"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	return t == TaskTypeTask || t == TaskTypeInterview || t == TaskTypeReminder
}

// UnassignedApplication is the sentinel ApplicationID for tasks that are not
// linked to any application.
const UnassignedApplication = "unknown"

// FilterStatusAll is the status filter sentinel matching every status.
const FilterStatusAll = "All"

// HistoryEntry records one status transition of an application.
type HistoryEntry struct {
	Status Status `json:"status"`
	Date   string `json:"date"`
}

// JobApplication is a tracked job application record. Optional free-text
// fields are absent when empty; timestamps are RFC3339, date-only fields are
// "YYYY-MM-DD" strings.
type JobApplication struct {
	ID           string         `json:"id"`
	Company      string         `json:"company,omitempty"`
	Position     string         `json:"position,omitempty"`
	Location     string         `json:"location,omitempty"`
	Link         string         `json:"link,omitempty"`
	Source       string         `json:"source,omitempty"`
	Status       Status         `json:"status"`
	FollowUpDate string         `json:"followUpDate,omitempty"`
	Contact      string         `json:"contact,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
	History      []HistoryEntry `json:"history,omitempty"`
}

// Task is a scheduled to-do, interview or reminder, optionally linked to an
// application. CompletionNote and CompletedAt are only meaningful while Done
// is true; clearing Done clears both.
type Task struct {
	ID             string   `json:"id"`
	ApplicationID  string   `json:"applicationId"`
	Title          string   `json:"title"`
	DueDate        string   `json:"dueDate,omitempty"`
	Done           bool     `json:"done"`
	Type           TaskType `json:"type"`
	CompletionNote string   `json:"completionNote,omitempty"`
	CompletedAt    string   `json:"completedAt,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// Settings holds the persisted user preferences.
type Settings struct {
	Theme        ThemeMode   `json:"theme"`
	Sort         SortOption  `json:"sort"`
	FilterStatus string      `json:"filterStatus"`
	FilterRange  FilterRange `json:"filterRange"`
	Search       string      `json:"search"`
	WeeklyGoal   int         `json:"weeklyGoal"`
}

// AppState is the aggregate persisted and backed up as one unit.
type AppState struct {
	Applications []JobApplication `json:"applications"`
	Tasks        []Task           `json:"tasks"`
	Settings     Settings         `json:"settings"`
}

// Clone returns a deep copy of the state. Collaborators receive clones so
// they can never mutate the store's live collections in place.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		Applications: make([]JobApplication, len(s.Applications)),
		Tasks:        make([]Task, len(s.Tasks)),
		Settings:     s.Settings,
	}
	for i, app := range s.Applications {
		if app.History != nil {
			hist := make([]HistoryEntry, len(app.History))
			copy(hist, app.History)
			app.History = hist
		}
		out.Applications[i] = app
	}
	copy(out.Tasks, s.Tasks)
	return out
}

// Timestamp renders a point in time the way every persisted timestamp is
// stored: RFC3339 in UTC.
func Timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// DateOnly renders a point in time as a date-only string in UTC.
func DateOnly(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}
