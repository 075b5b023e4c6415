// Package tasks turns the nested, string-typed task containers of the
// API into flat, typed records with derived fields. The pipeline is
// staged: Flatten resolves the nesting and the list names, Normalize
// coerces the fields and computes the derived ones. Each stage returns
// fresh records; nothing is mutated in place.
package tasks

import (
	"fmt"
	"time"
)

const taskURLFormat = "https://www.rememberthemilk.com/app/#list/%d/%d"

// Flat is one task instance pulled out of the nested structure, all
// fields still in their wire form.
type Flat struct {
	ListID    string
	TaskID    string
	List      string
	Name      string
	Due       string
	Completed string
	Prio      string
	Estimate  string
	Postponed string
	Deleted   string
}

// Task is the normalized, analysis-ready record.
//
// Date fields are civil dates: after conversion to the local timezone
// the time of day and the offset are dropped, and the date is stored
// at UTC midnight. A zero time means the field was empty. Pointer
// fields are nil when the source field was empty or the derivation did
// not apply.
type Task struct {
	ListID        int
	TaskID        int
	List          string
	Name          string
	Due           time.Time
	Completed     time.Time
	CompletedTime string // "HH:MM" in local time, "" when not completed
	Prio          int    // remapped weight: one of 1, 2, 4
	Estimate      *int   // minutes
	Postponed     int
	Overdue       *int // days, >= 0
	OverduePrio   *int // Prio * Overdue
	CompletedWeek time.Time // Monday of the ISO week of Completed
	URL           string
}

// LookupError reports a task whose list id is missing from the list
// mapping. This means the list cache is stale relative to the task
// cache and must not be ignored silently.
type LookupError struct {
	ListID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("task references unknown list id %s", e.ListID)
}

// FormatError reports a field value outside the API contract, such as
// an unknown priority or a malformed estimate.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Field, e.Value)
}
