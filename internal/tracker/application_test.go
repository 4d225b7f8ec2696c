package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func statusPtr(s Status) *Status { return &s }

var testNow = time.Date(2025, 1, 20, 10, 30, 0, 0, time.UTC)

func TestNewApplicationDefaults(t *testing.T) {
	app := NewApplication(ApplicationPatch{}, testNow)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, StatusDraft, app.Status)
	assert.Equal(t, "2025-01-20T10:30:00Z", app.CreatedAt)
	assert.Equal(t, app.CreatedAt, app.UpdatedAt)
	assert.Nil(t, app.History)
}

func TestNewApplicationPatchWins(t *testing.T) {
	app := NewApplication(ApplicationPatch{
		Company: strptr("ACME"),
		Status:  statusPtr(StatusApplied),
	}, testNow)

	assert.Equal(t, "ACME", app.Company)
	assert.Equal(t, StatusApplied, app.Status)
}

func TestNewApplicationNormalizesEmptyOptionalFields(t *testing.T) {
	app := NewApplication(ApplicationPatch{
		Company:  strptr("  ACME  "),
		Position: strptr("   "),
		Notes:    strptr(""),
	}, testNow)

	assert.Equal(t, "ACME", app.Company)
	assert.Empty(t, app.Position, "whitespace-only input must be stored as absent")
	assert.Empty(t, app.Notes)
}

func TestNewApplicationIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		app := NewApplication(ApplicationPatch{}, testNow)
		assert.False(t, seen[app.ID])
		seen[app.ID] = true
	}
}

func TestAddApplicationPrepends(t *testing.T) {
	first := NewApplication(ApplicationPatch{Company: strptr("First")}, testNow)
	second := NewApplication(ApplicationPatch{Company: strptr("Second")}, testNow)

	apps := AddApplication(nil, first)
	apps = AddApplication(apps, second)

	require.Len(t, apps, 2)
	assert.Equal(t, "Second", apps[0].Company)
	assert.Equal(t, "First", apps[1].Company)
}

func TestUpdateApplicationMergesPatch(t *testing.T) {
	app := NewApplication(ApplicationPatch{Company: strptr("ACME")}, testNow)
	apps := []JobApplication{app}

	later := testNow.Add(time.Hour)
	updated := UpdateApplication(apps, app.ID, ApplicationPatch{Position: strptr("Engineer")}, later)

	require.Len(t, updated, 1)
	assert.Equal(t, "ACME", updated[0].Company, "untouched fields survive the merge")
	assert.Equal(t, "Engineer", updated[0].Position)
	assert.Equal(t, Timestamp(later), updated[0].UpdatedAt)

	// input list is untouched
	assert.Empty(t, apps[0].Position)
}

func TestUpdateApplicationUnknownIDIsNoOp(t *testing.T) {
	app := NewApplication(ApplicationPatch{}, testNow)
	apps := []JobApplication{app}

	updated := UpdateApplication(apps, "missing", ApplicationPatch{Company: strptr("X")}, testNow)

	assert.Equal(t, apps, updated)
}

func TestDeleteApplication(t *testing.T) {
	a := NewApplication(ApplicationPatch{}, testNow)
	b := NewApplication(ApplicationPatch{}, testNow)
	apps := []JobApplication{a, b}

	remaining := DeleteApplication(apps, a.ID)

	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)

	assert.Len(t, DeleteApplication(apps, "missing"), 2)
}

func TestChangeStatusAppendsExactlyOneHistoryEntry(t *testing.T) {
	app := NewApplication(ApplicationPatch{}, testNow)
	apps := []JobApplication{app}

	for i, status := range []Status{StatusApplied, StatusInterview, StatusOffer} {
		apps = ChangeStatus(apps, app.ID, status, testNow.Add(time.Duration(i)*time.Hour))
		require.Len(t, apps[0].History, i+1, "each transition appends exactly one entry")
		assert.Equal(t, status, apps[0].History[i].Status)
	}

	// prior entries are never removed
	assert.Equal(t, StatusApplied, apps[0].History[0].Status)
	assert.Equal(t, StatusInterview, apps[0].History[1].Status)
}

func TestChangeStatusFollowUpSuggestions(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusApplied, "2025-01-27"},
		{StatusInterview, "2025-01-23"},
		{StatusOffer, "2025-01-22"},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			app := NewApplication(ApplicationPatch{}, testNow)
			apps := ChangeStatus([]JobApplication{app}, app.ID, tc.status, testNow)
			assert.Equal(t, tc.want, apps[0].FollowUpDate)
		})
	}
}

func TestChangeStatusKeepsExistingFollowUp(t *testing.T) {
	app := NewApplication(ApplicationPatch{FollowUpDate: strptr("2025-03-01")}, testNow)
	apps := ChangeStatus([]JobApplication{app}, app.ID, StatusApplied, testNow)

	assert.Equal(t, "2025-03-01", apps[0].FollowUpDate)
}

func TestChangeStatusTerminalClearsFollowUp(t *testing.T) {
	for _, status := range []Status{StatusRejected, StatusWithdrawn} {
		t.Run(string(status), func(t *testing.T) {
			app := NewApplication(ApplicationPatch{FollowUpDate: strptr("2025-03-01")}, testNow)
			apps := ChangeStatus([]JobApplication{app}, app.ID, status, testNow)
			assert.Empty(t, apps[0].FollowUpDate)
		})
	}
}

func TestChangeStatusDraftGetsNoSuggestion(t *testing.T) {
	app := NewApplication(ApplicationPatch{}, testNow)
	apps := ChangeStatus([]JobApplication{app}, app.ID, StatusDraft, testNow)
	assert.Empty(t, apps[0].FollowUpDate)
}

func TestCalculateFollowUpDate(t *testing.T) {
	assert.Equal(t, "2025-01-27", CalculateFollowUpDate(StatusApplied, testNow))
	assert.Equal(t, "2025-01-23", CalculateFollowUpDate(StatusInterview, testNow))
	assert.Equal(t, "2025-01-22", CalculateFollowUpDate(StatusOffer, testNow))
	assert.Empty(t, CalculateFollowUpDate(StatusDraft, testNow))
	assert.Empty(t, CalculateFollowUpDate(StatusRejected, testNow))
	assert.Empty(t, CalculateFollowUpDate(StatusWithdrawn, testNow))
}
