package tracker

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Filters are the composable application list filters. Status is a Status
// value or FilterStatusAll; Search matches company and position only.
type Filters struct {
	Status string      `json:"status"`
	Range  FilterRange `json:"range"`
	Search string      `json:"search"`
}

// searchFolder provides Unicode case folding so search is caseless beyond
// plain ASCII lowering.
var searchFolder = cases.Fold()

// FilterApplications returns the applications matching all of the given
// filters. The search term is trimmed and matched caseless as a substring of
// company or position; the range filter drops applications created before
// now minus the window.
func FilterApplications(apps []JobApplication, filters Filters, now time.Time) []JobApplication {
	search := searchFolder.String(strings.TrimSpace(filters.Search))

	var cutoff time.Time
	if days := filters.Range.Days(); days > 0 {
		cutoff = now.AddDate(0, 0, -days)
	}

	out := make([]JobApplication, 0, len(apps))
	for _, app := range apps {
		if filters.Status != FilterStatusAll && filters.Status != "" && string(app.Status) != filters.Status {
			continue
		}
		if search != "" && !matchesSearch(app, search) {
			continue
		}
		if !cutoff.IsZero() && createdBefore(app, cutoff) {
			continue
		}
		out = append(out, app)
	}
	return out
}

func matchesSearch(app JobApplication, foldedSearch string) bool {
	return strings.Contains(searchFolder.String(app.Company), foldedSearch) ||
		strings.Contains(searchFolder.String(app.Position), foldedSearch)
}

// createdBefore reports whether the application's createdAt parses to a time
// before the cutoff. Unparseable timestamps keep the application visible
// rather than silently hiding data.
func createdBefore(app JobApplication, cutoff time.Time) bool {
	created, err := time.Parse(time.RFC3339, app.CreatedAt)
	if err != nil {
		return false
	}
	return created.Before(cutoff)
}
