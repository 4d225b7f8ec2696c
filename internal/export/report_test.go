package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/jobtracker/internal/tracker"
)

func reportState() *tracker.AppState {
	state := tracker.DefaultState()
	state.Applications = []tracker.JobApplication{
		{ID: "1", Company: "ACME", Position: "Engineer", Status: tracker.StatusOffer,
			CreatedAt: "2025-01-10T10:00:00Z", UpdatedAt: "2025-01-10T10:00:00Z"},
		{ID: "2", Company: "Globex", Position: "Designer", Status: tracker.StatusApplied,
			FollowUpDate: "2025-01-15",
			CreatedAt:    "2025-01-12T10:00:00Z", UpdatedAt: "2025-01-12T10:00:00Z"},
	}
	return state
}

var reportNow = time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

func TestBuildMarkdownReport(t *testing.T) {
	md := BuildMarkdownReport(reportState(), reportNow)

	assert.Contains(t, md, "# Application Report 2025-01-20")
	assert.Contains(t, md, "2 applications tracked")
	assert.Contains(t, md, "| Offer | 1 |")
	assert.Contains(t, md, "Globex — Designer (2025-01-15)", "overdue follow-up is listed")
	assert.Contains(t, md, "| 2025-01-10 | ACME | Engineer | Offer | Offer |")
}

func TestRenderHTMLReportIsParseableHTML(t *testing.T) {
	out, err := RenderHTMLReport(reportState(), reportNow)
	require.NoError(t, err)

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	// the per-status table made it through the renderer
	var tables, headings int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				tables++
			case "h2":
				headings++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	assert.Equal(t, 2, tables, "status table and application table")
	assert.Equal(t, 3, headings, "by status, follow-ups due, applications")
	assert.Contains(t, out, "ACME")
}

func TestBackupFilename(t *testing.T) {
	assert.Equal(t, "jobtracker-backup-2025-01-20.json", BackupFilename(reportNow))
}
