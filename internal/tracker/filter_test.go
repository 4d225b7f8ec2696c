package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appWith(company, position string, status Status, created time.Time) JobApplication {
	return JobApplication{
		ID:        company + "/" + position,
		Company:   company,
		Position:  position,
		Status:    status,
		CreatedAt: Timestamp(created),
		UpdatedAt: Timestamp(created),
	}
}

func TestFilterApplicationsByStatus(t *testing.T) {
	apps := []JobApplication{
		appWith("ACME", "Engineer", StatusApplied, testNow),
		appWith("Globex", "Designer", StatusDraft, testNow),
	}

	filtered := FilterApplications(apps, Filters{Status: string(StatusApplied), Range: RangeAll}, testNow)
	require.Len(t, filtered, 1)
	assert.Equal(t, "ACME", filtered[0].Company)

	all := FilterApplications(apps, Filters{Status: FilterStatusAll, Range: RangeAll}, testNow)
	assert.Len(t, all, 2)
}

func TestFilterApplicationsBySearch(t *testing.T) {
	apps := []JobApplication{
		appWith("ACME Corp", "Backend Engineer", StatusApplied, testNow),
		appWith("Globex", "Designer", StatusApplied, testNow),
	}

	for _, search := range []string{"acme", "ACME", "  engineer  ", "BACKEND"} {
		filtered := FilterApplications(apps, Filters{Status: FilterStatusAll, Range: RangeAll, Search: search}, testNow)
		require.Len(t, filtered, 1, "search %q", search)
		assert.Equal(t, "ACME Corp", filtered[0].Company)
	}
}

func TestFilterApplicationsSearchIgnoresOtherFields(t *testing.T) {
	app := appWith("ACME", "Engineer", StatusApplied, testNow)
	app.Notes = "remote friendly"
	app.Location = "Berlin"

	filtered := FilterApplications([]JobApplication{app}, Filters{Status: FilterStatusAll, Range: RangeAll, Search: "berlin"}, testNow)
	assert.Empty(t, filtered, "search only matches company and position")
}

func TestFilterApplicationsByRange(t *testing.T) {
	// now = 2025-01-20: a 7-day window includes the 17th, excludes the 1st.
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	recent := appWith("Recent", "Dev", StatusApplied, time.Date(2025, 1, 17, 9, 0, 0, 0, time.UTC))
	old := appWith("Old", "Dev", StatusApplied, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))

	filtered := FilterApplications([]JobApplication{recent, old}, Filters{Status: FilterStatusAll, Range: Range7d}, now)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Recent", filtered[0].Company)

	all := FilterApplications([]JobApplication{recent, old}, Filters{Status: FilterStatusAll, Range: RangeAll}, now)
	assert.Len(t, all, 2, "the all range performs no filtering")
}

func TestFilterApplicationsCompose(t *testing.T) {
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	match := appWith("ACME", "Engineer", StatusApplied, time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC))
	wrongStatus := appWith("ACME", "Engineer", StatusDraft, time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC))
	tooOld := appWith("ACME", "Engineer", StatusApplied, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))

	filtered := FilterApplications([]JobApplication{match, wrongStatus, tooOld}, Filters{
		Status: string(StatusApplied),
		Range:  Range7d,
		Search: "acme",
	}, now)

	require.Len(t, filtered, 1, "filters compose with logical AND")
	assert.Equal(t, match.ID, filtered[0].ID)
}

func TestFilterRangeDays(t *testing.T) {
	assert.Equal(t, 7, Range7d.Days())
	assert.Equal(t, 14, Range14d.Days())
	assert.Equal(t, 30, Range30d.Days())
	assert.Equal(t, 90, Range90d.Days())
	assert.Equal(t, 180, Range180d.Days())
	assert.Equal(t, 365, Range365d.Days())
	assert.Equal(t, 0, RangeAll.Days())
}
