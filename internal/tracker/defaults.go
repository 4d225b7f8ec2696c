package tracker

const (
	// DefaultWeeklyGoal is the number of applications per week the dashboard
	// measures progress against when the user has not set one.
	DefaultWeeklyGoal = 5

	minWeeklyGoal = 1
	maxWeeklyGoal = 30
)

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:        ThemeDark,
		Sort:         SortByCreated,
		FilterStatus: FilterStatusAll,
		FilterRange:  RangeAll,
		Search:       "",
		WeeklyGoal:   DefaultWeeklyGoal,
	}
}

// DefaultState returns the empty starting state. Collections are non-nil so
// the state always serializes with explicit empty arrays.
func DefaultState() *AppState {
	return &AppState{
		Applications: []JobApplication{},
		Tasks:        []Task{},
		Settings:     DefaultSettings(),
	}
}

// ClampWeeklyGoal bounds a weekly goal to the supported 1-30 interval. Zero
// and negative values fall back to the default rather than the minimum, so a
// missing field in an older backup restores to a sane value.
func ClampWeeklyGoal(goal int) int {
	if goal == 0 {
		return DefaultWeeklyGoal
	}
	if goal < minWeeklyGoal {
		return minWeeklyGoal
	}
	if goal > maxWeeklyGoal {
		return maxWeeklyGoal
	}
	return goal
}
