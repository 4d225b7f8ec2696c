package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

// renderer converts the markdown report to HTML. Table support is the only
// extension the report needs.
var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// BuildMarkdownReport renders the state into a markdown progress report:
// totals, per-status counts, follow-ups due, and the application table.
func BuildMarkdownReport(state *tracker.AppState, now time.Time) string {
	stats := tracker.GetDashboardStats(state.Applications, now)

	var b strings.Builder
	fmt.Fprintf(&b, "# Application Report %s\n\n", tracker.DateOnly(now))
	fmt.Fprintf(&b, "%d applications tracked, %d this week (goal %d), %d this month.\n\n",
		stats.Total, stats.ThisWeek, state.Settings.WeeklyGoal, stats.ThisMonth)

	b.WriteString("## By status\n\n")
	b.WriteString("| Status | Count |\n|---|---|\n")
	for _, status := range tracker.AllStatuses {
		fmt.Fprintf(&b, "| %s | %d |\n", status, stats.ByStatus[status])
	}
	b.WriteString("\n")

	if len(stats.FollowUpsDue) > 0 {
		b.WriteString("## Follow-ups due\n\n")
		for _, app := range stats.FollowUpsDue {
			fmt.Fprintf(&b, "- %s — %s (%s)\n", app.Company, app.Position, app.FollowUpDate)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Applications\n\n")
	b.WriteString("| Date | Company | Position | Status | Result |\n|---|---|---|---|---|\n")
	for _, row := range BuildRows(state.Applications) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			row.Date, row.Company, row.Position, row.Status, row.Result)
	}
	return b.String()
}

// RenderHTMLReport renders the markdown report into a standalone HTML page.
func RenderHTMLReport(state *tracker.AppState, now time.Time) (string, error) {
	var body bytes.Buffer
	if err := renderer.Convert([]byte(BuildMarkdownReport(state, now)), &body); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>Application Report</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// BackupFilename names a dated backup export, e.g.
// jobtracker-backup-2025-01-20.json.
func BackupFilename(now time.Time) string {
	return fmt.Sprintf("jobtracker-backup-%s.json", tracker.DateOnly(now))
}
