package report

import (
	"sort"

	"milkreport/pkg/tasks"
)

// SortCompleted orders the detail view of completed tasks: most
// recently completed first, higher priority first, then name.
func SortCompleted(records []tasks.Task) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Completed.Equal(b.Completed) {
			return a.Completed.After(b.Completed)
		}
		if a.Prio != b.Prio {
			return a.Prio > b.Prio
		}
		return a.Name < b.Name
	})
}

// SortOverdue orders the detail view of overdue tasks by the weighted
// overdue score, highest first.
func SortOverdue(records []tasks.Task) {
	score := func(t tasks.Task) int {
		if t.OverduePrio == nil {
			return 0
		}
		return *t.OverduePrio
	}
	sort.SliceStable(records, func(i, j int) bool {
		return score(records[i]) > score(records[j])
	})
}
