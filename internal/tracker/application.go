package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApplicationPatch is a partial JobApplication. Nil fields are left
// untouched when the patch is applied; non-nil fields win over existing
// values, including the empty string, which clears the field. Identity and
// bookkeeping fields (id, timestamps, history) are deliberately not
// patchable.
type ApplicationPatch struct {
	Company      *string `json:"company"`
	Position     *string `json:"position"`
	Location     *string `json:"location"`
	Link         *string `json:"link"`
	Source       *string `json:"source"`
	Status       *Status `json:"status"`
	FollowUpDate *string `json:"followUpDate"`
	Contact      *string `json:"contact"`
	Notes        *string `json:"notes"`
}

// NewApplication builds an application with a fresh random id and both
// timestamps stamped from now. Patch values win over computed defaults.
// Random ids are practically unique for a single-user store; there is no
// collision check.
func NewApplication(patch ApplicationPatch, now time.Time) JobApplication {
	ts := Timestamp(now)
	app := JobApplication{
		ID:        uuid.NewString(),
		Status:    StatusDraft,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	app.apply(patch)
	app.normalize()
	return app
}

// AddApplication prepends app to the list. Newest-first is the implicit
// list order; display sorting is a separate concern.
func AddApplication(apps []JobApplication, app JobApplication) []JobApplication {
	out := make([]JobApplication, 0, len(apps)+1)
	out = append(out, app)
	return append(out, apps...)
}

// UpdateApplication merges patch over the application with the given id and
// refreshes its updatedAt. An unknown id is a no-op: the input list is
// returned unchanged.
func UpdateApplication(apps []JobApplication, id string, patch ApplicationPatch, now time.Time) []JobApplication {
	idx := indexOfApplication(apps, id)
	if idx < 0 {
		return apps
	}
	out := make([]JobApplication, len(apps))
	copy(out, apps)
	app := out[idx]
	app.apply(patch)
	app.normalize()
	app.UpdatedAt = Timestamp(now)
	out[idx] = app
	return out
}

// DeleteApplication removes the application with the given id. Callers that
// own tasks must pair this with DeleteTasksForApplication so no orphan tasks
// survive.
func DeleteApplication(apps []JobApplication, id string) []JobApplication {
	out := make([]JobApplication, 0, len(apps))
	for _, app := range apps {
		if app.ID != id {
			out = append(out, app)
		}
	}
	return out
}

// ChangeStatus transitions the application with the given id to status,
// appending exactly one history entry. Follow-up handling per status:
// terminal statuses clear the follow-up date, otherwise an existing date is
// kept and an absent one adopts the suggested offset for the new status.
func ChangeStatus(apps []JobApplication, id string, status Status, now time.Time) []JobApplication {
	idx := indexOfApplication(apps, id)
	if idx < 0 {
		return apps
	}
	out := make([]JobApplication, len(apps))
	copy(out, apps)
	app := out[idx]

	hist := make([]HistoryEntry, len(app.History), len(app.History)+1)
	copy(hist, app.History)
	app.History = append(hist, HistoryEntry{Status: status, Date: Timestamp(now)})

	app.Status = status
	switch {
	case status.Terminal():
		app.FollowUpDate = ""
	case app.FollowUpDate == "":
		app.FollowUpDate = CalculateFollowUpDate(status, now)
	}
	app.UpdatedAt = Timestamp(now)
	out[idx] = app
	return out
}

// followUpOffsets is the fixed suggestion policy: days until re-engaging
// after entering a status. Statuses without an entry get no suggestion.
var followUpOffsets = map[Status]int{
	StatusApplied:   7,
	StatusInterview: 3,
	StatusOffer:     2,
}

// CalculateFollowUpDate returns the suggested follow-up date for entering
// status, as a date-only string, or "" when the status has no suggestion.
func CalculateFollowUpDate(status Status, base time.Time) string {
	offset, ok := followUpOffsets[status]
	if !ok {
		return ""
	}
	return DateOnly(base.AddDate(0, 0, offset))
}

func indexOfApplication(apps []JobApplication, id string) int {
	for i := range apps {
		if apps[i].ID == id {
			return i
		}
	}
	return -1
}

func (a *JobApplication) apply(patch ApplicationPatch) {
	if patch.Company != nil {
		a.Company = *patch.Company
	}
	if patch.Position != nil {
		a.Position = *patch.Position
	}
	if patch.Location != nil {
		a.Location = *patch.Location
	}
	if patch.Link != nil {
		a.Link = *patch.Link
	}
	if patch.Source != nil {
		a.Source = *patch.Source
	}
	if patch.Status != nil && patch.Status.Valid() {
		a.Status = *patch.Status
	}
	if patch.FollowUpDate != nil {
		a.FollowUpDate = *patch.FollowUpDate
	}
	if patch.Contact != nil {
		a.Contact = *patch.Contact
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
}

// normalize trims optional free-text fields so whitespace-only input is
// stored as absent, not as an empty-looking string.
func (a *JobApplication) normalize() {
	a.Company = strings.TrimSpace(a.Company)
	a.Position = strings.TrimSpace(a.Position)
	a.Location = strings.TrimSpace(a.Location)
	a.Link = strings.TrimSpace(a.Link)
	a.Source = strings.TrimSpace(a.Source)
	a.Contact = strings.TrimSpace(a.Contact)
	a.Notes = strings.TrimSpace(a.Notes)
	a.FollowUpDate = strings.TrimSpace(a.FollowUpDate)
}
