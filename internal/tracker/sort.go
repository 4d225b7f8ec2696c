package tracker

import "sort"

// statusRank maps each status to its position in AllStatuses.
var statusRank = func() map[Status]int {
	ranks := make(map[Status]int, len(AllStatuses))
	for i, s := range AllStatuses {
		ranks[s] = i
	}
	return ranks
}()

// SortApplications returns a sorted copy of the list. Strategies: status
// follows the fixed enum ranking, followUp sorts ascending with absent dates
// last, and the default sorts by createdAt descending (newest first).
// Both timestamp formats in use are lexicographically ordered, so string
// comparison is chronological comparison.
func SortApplications(apps []JobApplication, option SortOption) []JobApplication {
	out := make([]JobApplication, len(apps))
	copy(out, apps)

	switch option {
	case SortByStatus:
		sort.SliceStable(out, func(i, j int) bool {
			return statusRank[out[i].Status] < statusRank[out[j].Status]
		})
	case SortByFollowUp:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].FollowUpDate, out[j].FollowUpDate
			if a == "" {
				return false
			}
			if b == "" {
				return true
			}
			return a < b
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt > out[j].CreatedAt
		})
	}
	return out
}
