// Package report computes grouped summary statistics over normalized
// task records. Nil contributions sum as zero; Count counts every row.
package report

import (
	"sort"
	"time"

	"milkreport/pkg/tasks"
)

// WeekRow is one (completion week, list) bucket.
type WeekRow struct {
	Week           time.Time
	List           string
	Count          int
	SumPrio        int
	SumOverduePrio int
	SumEstimate    int
}

// ListRow is one per-list bucket.
type ListRow struct {
	List           string
	Count          int
	SumPrio        int
	SumOverduePrio int
	SumEstimate    int
}

// ByWeekAndList groups by (completed week, list), sorted by week
// descending and list ascending. Tasks without a completion week are
// not bucketed.
func ByWeekAndList(records []tasks.Task) []WeekRow {
	type key struct {
		week time.Time
		list string
	}
	buckets := make(map[key]*WeekRow)
	for _, t := range records {
		if t.CompletedWeek.IsZero() {
			continue
		}
		k := key{week: t.CompletedWeek, list: t.List}
		row, ok := buckets[k]
		if !ok {
			row = &WeekRow{Week: t.CompletedWeek, List: t.List}
			buckets[k] = row
		}
		accumulate(&row.Count, &row.SumPrio, &row.SumOverduePrio, &row.SumEstimate, t)
	}

	rows := make([]WeekRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Week.Equal(rows[j].Week) {
			return rows[i].Week.After(rows[j].Week)
		}
		return rows[i].List < rows[j].List
	})
	return rows
}

// ByList groups by list, sorted by list ascending.
func ByList(records []tasks.Task) []ListRow {
	buckets := make(map[string]*ListRow)
	for _, t := range records {
		row, ok := buckets[t.List]
		if !ok {
			row = &ListRow{List: t.List}
			buckets[t.List] = row
		}
		accumulate(&row.Count, &row.SumPrio, &row.SumOverduePrio, &row.SumEstimate, t)
	}

	rows := make([]ListRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].List < rows[j].List })
	return rows
}

func accumulate(count, sumPrio, sumOverduePrio, sumEstimate *int, t tasks.Task) {
	*count++
	*sumPrio += t.Prio
	if t.OverduePrio != nil {
		*sumOverduePrio += *t.OverduePrio
	}
	if t.Estimate != nil {
		*sumEstimate += *t.Estimate
	}
}
