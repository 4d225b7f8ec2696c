// Package theme resolves the UI color scheme from stored settings and the
// environment.
package theme

import (
	"os"

	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// EnvVar overrides the environment preference, e.g. JOBTRACKER_THEME=light.
const EnvVar = "JOBTRACKER_THEME"

// Preference reports the environment's color scheme preference.
type Preference func() tracker.ThemeMode

// EnvPreference reads the preference from the environment, defaulting to
// dark.
func EnvPreference() tracker.ThemeMode {
	if mode := tracker.ThemeMode(os.Getenv(EnvVar)); mode.Valid() {
		return mode
	}
	return tracker.ThemeDark
}

// Resolve picks the effective theme: a valid stored value wins, otherwise
// the environment preference applies.
func Resolve(stored tracker.ThemeMode, pref Preference) tracker.ThemeMode {
	if stored.Valid() {
		return stored
	}
	if pref == nil {
		return EnvPreference()
	}
	return pref()
}
