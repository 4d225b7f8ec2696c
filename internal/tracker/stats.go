package tracker

import (
	"sort"
	"time"
)

// MonthCount is one bucket of the trailing monthly series.
type MonthCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardStats aggregates the numbers the dashboard renders.
type DashboardStats struct {
	Total         int              `json:"total"`
	ByStatus      map[Status]int   `json:"byStatus"`
	ThisWeek      int              `json:"thisWeek"`
	ThisMonth     int              `json:"thisMonth"`
	LastSixMonths []MonthCount     `json:"lastSixMonths"`
	FollowUpsDue  []JobApplication `json:"followUpsDue"`
}

var monthLabels = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// GetDashboardStats computes total and per-status counts, applications
// created since the most recent Monday and in the current calendar month, a
// six-point trailing monthly series (oldest first), and the follow-ups due
// on or before today sorted ascending.
func GetDashboardStats(apps []JobApplication, now time.Time) DashboardStats {
	byStatus := make(map[Status]int, len(AllStatuses))
	for _, s := range AllStatuses {
		byStatus[s] = 0
	}

	weekStart := startOfWeek(now)
	thisWeek, thisMonth := 0, 0
	for _, app := range apps {
		if _, known := byStatus[app.Status]; known {
			byStatus[app.Status]++
		}
		created, err := time.Parse(time.RFC3339, app.CreatedAt)
		if err != nil {
			continue
		}
		created = created.In(now.Location())
		if !created.Before(weekStart) {
			thisWeek++
		}
		if created.Month() == now.Month() && created.Year() == now.Year() {
			thisMonth++
		}
	}

	series := make([]MonthCount, 0, 6)
	for i := 0; i < 6; i++ {
		month := time.Date(now.Year(), now.Month()-time.Month(5-i), 1, 0, 0, 0, 0, now.Location())
		count := 0
		for _, app := range apps {
			created, err := time.Parse(time.RFC3339, app.CreatedAt)
			if err != nil {
				continue
			}
			created = created.In(now.Location())
			if created.Month() == month.Month() && created.Year() == month.Year() {
				count++
			}
		}
		series = append(series, MonthCount{Label: monthLabels[month.Month()-1], Count: count})
	}

	today := DateOnly(now)
	due := make([]JobApplication, 0)
	for _, app := range apps {
		if app.FollowUpDate != "" && app.FollowUpDate <= today {
			due = append(due, app)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].FollowUpDate < due[j].FollowUpDate
	})

	return DashboardStats{
		Total:         len(apps),
		ByStatus:      byStatus,
		ThisWeek:      thisWeek,
		ThisMonth:     thisMonth,
		LastSixMonths: series,
		FollowUpsDue:  due,
	}
}

// startOfWeek returns Monday 00:00 of the week containing t. Weeks start on
// Monday, not Sunday.
func startOfWeek(t time.Time) time.Time {
	diff := 1 - int(t.Weekday())
	if t.Weekday() == time.Sunday {
		diff = -6
	}
	day := t.AddDate(0, 0, diff)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}
