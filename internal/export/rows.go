// Package export projects tracker state into the printable report formats:
// flat table rows and a rendered HTML summary.
package export

import (
	"time"

	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// Row is one line of the printable application table.
type Row struct {
	Date     string `json:"date"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Status   string `json:"status"`
	Result   string `json:"result"`
}

// BuildRows flattens applications into table rows for printing.
func BuildRows(apps []tracker.JobApplication) []Row {
	rows := make([]Row, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, Row{
			Date:     FormatDate(app.CreatedAt),
			Company:  app.Company,
			Position: app.Position,
			Status:   string(app.Status),
			Result:   statusResult(app.Status),
		})
	}
	return rows
}

// FormatDate renders a stored timestamp or date-only value as a date-only
// string; unparseable input renders empty rather than leaking raw data
// into the report.
func FormatDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return ""
}

// statusResult collapses the status into the report's outcome column.
func statusResult(status tracker.Status) string {
	switch status {
	case tracker.StatusOffer:
		return "Offer"
	case tracker.StatusRejected:
		return "Declined"
	case tracker.StatusWithdrawn:
		return "Withdrawn"
	default:
		return "Open"
	}
}
