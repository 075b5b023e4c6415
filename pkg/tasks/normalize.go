package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"milkreport/pkg/rtm"
)

// priorityMap is a closed enumeration: N (none) and 3 weigh 1, 2 stays
// 2, and 1 (most urgent) weighs 4. Anything else is an API contract
// violation.
var priorityMap = map[string]int{"N": 1, "3": 1, "2": 2, "1": 4}

// Flatten walks the list -> taskseries -> task nesting and emits one
// Flat record per task instance, resolving list ids to names through
// the supplied mapping.
func Flatten(taskLists []rtm.TaskList, names map[int]string) ([]Flat, error) {
	var flat []Flat
	for _, tl := range taskLists {
		id, err := strconv.Atoi(tl.ID)
		if err != nil {
			return nil, fmt.Errorf("non-numeric list id %q: %w", tl.ID, err)
		}
		name, ok := names[id]
		if !ok {
			return nil, &LookupError{ListID: tl.ID}
		}
		for _, series := range tl.TaskSeries {
			for _, task := range series.Task {
				flat = append(flat, Flat{
					ListID:    tl.ID,
					TaskID:    task.ID,
					List:      name,
					Name:      series.Name,
					Due:       task.Due,
					Completed: task.Completed,
					Prio:      task.Priority,
					Estimate:  task.Estimate,
					Postponed: task.Postponed,
					Deleted:   task.Deleted,
				})
			}
		}
	}
	return flat, nil
}

// Normalize coerces every Flat record into a typed Task and computes
// the derived fields. today is the reference date for the overdue
// computation; it is evaluated once per run by the caller so a batch
// spanning midnight stays consistent. Any malformed field aborts the
// whole batch.
func Normalize(flat []Flat, loc *time.Location, today time.Time) ([]Task, error) {
	out := make([]Task, 0, len(flat))
	today = civilDate(today.In(loc))

	for _, f := range flat {
		t := Task{List: f.List, Name: f.Name}

		var err error
		if t.ListID, err = strconv.Atoi(f.ListID); err != nil {
			return nil, fmt.Errorf("non-numeric list id %q: %w", f.ListID, err)
		}
		if t.TaskID, err = strconv.Atoi(f.TaskID); err != nil {
			return nil, fmt.Errorf("non-numeric task id %q: %w", f.TaskID, err)
		}
		if t.Postponed, err = strconv.Atoi(f.Postponed); err != nil {
			return nil, fmt.Errorf("non-numeric postponed count %q: %w", f.Postponed, err)
		}

		if t.Estimate, err = EstimateMinutes(f.Estimate); err != nil {
			return nil, err
		}

		prio, ok := priorityMap[f.Prio]
		if !ok {
			return nil, &FormatError{Field: "priority", Value: f.Prio}
		}
		t.Prio = prio

		if f.Completed != "" {
			local, err := parseLocal(f.Completed, loc)
			if err != nil {
				return nil, err
			}
			t.CompletedTime = local.Format("15:04")
			t.Completed = civilDate(local)
		}
		if f.Due != "" {
			local, err := parseLocal(f.Due, loc)
			if err != nil {
				return nil, err
			}
			t.Due = civilDate(local)
		}

		t.Overdue = overdueDays(t.Due, t.Completed, today)
		if t.Overdue != nil && *t.Overdue != 0 {
			op := t.Prio * *t.Overdue
			t.OverduePrio = &op
		}
		if !t.Completed.IsZero() {
			t.CompletedWeek = isoWeekMonday(t.Completed)
		}
		t.URL = fmt.Sprintf(taskURLFormat, t.ListID, t.TaskID)

		out = append(out, t)
	}
	return out, nil
}

// EstimateMinutes converts an ISO-8601 time estimate of the form
// PT[<H>H][<M>M] to minutes. An empty string means no estimate (nil);
// any other shape is a *FormatError.
func EstimateMinutes(est string) (*int, error) {
	if est == "" {
		return nil, nil
	}
	rest, ok := strings.CutPrefix(est, "PT")
	if !ok || rest == "" {
		return nil, &FormatError{Field: "estimate", Value: est}
	}

	minutes := 0
	if h, tail, found := strings.Cut(rest, "H"); found {
		n, err := strconv.Atoi(h)
		if err != nil || n < 0 {
			return nil, &FormatError{Field: "estimate", Value: est}
		}
		minutes += n * 60
		rest = tail
	}
	if rest != "" {
		m, ok := strings.CutSuffix(rest, "M")
		if !ok {
			return nil, &FormatError{Field: "estimate", Value: est}
		}
		n, err := strconv.Atoi(m)
		if err != nil || n < 0 {
			return nil, &FormatError{Field: "estimate", Value: est}
		}
		minutes += n
	}
	return &minutes, nil
}

// parseLocal parses an RFC3339 UTC timestamp and converts it to the
// configured local timezone.
func parseLocal(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.In(loc), nil
}

// civilDate truncates to the calendar date, dropping time of day and
// timezone. The result is stored at UTC midnight so that date
// arithmetic is exact.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// overdueDays implements the overdue policy: a task completed on or
// after its due date was late by the difference in days; an open task
// past its due date is late relative to today; everything else,
// including tasks completed early, is not overdue.
func overdueDays(due, completed, today time.Time) *int {
	var days int
	switch {
	case !due.IsZero() && !completed.IsZero() && !due.After(completed):
		days = int(completed.Sub(due).Hours() / 24)
	case !due.IsZero() && completed.IsZero() && due.Before(today):
		days = int(today.Sub(due).Hours() / 24)
	default:
		return nil
	}
	return &days
}

// isoWeekMonday returns the Monday of the ISO calendar week containing
// d.
func isoWeekMonday(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
