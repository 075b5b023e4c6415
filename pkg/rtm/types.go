package rtm

// The API delivers every scalar as a string, including ids, flags and
// counters. These structs mirror the wire format exactly; typing
// happens later in the tasks package.

// List is one entry of rtm.lists.getList.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Deleted   string `json:"deleted"`
	Locked    string `json:"locked"`
	Archived  string `json:"archived"`
	Position  string `json:"position"`
	Smart     string `json:"smart"`
	SortOrder string `json:"sort_order"`
	Filter    string `json:"filter,omitempty"`
}

// IsSmart reports whether the list is a saved search rather than a
// real list.
func (l List) IsSmart() bool { return l.Smart == "1" }

// TaskList is one "list container" of rtm.tasks.getList: the tasks of
// a single list, grouped into task series.
type TaskList struct {
	ID         string       `json:"id"`
	TaskSeries []TaskSeries `json:"taskseries"`
}

// TaskSeries is a (possibly recurring) task template holding one or
// more task instances.
type TaskSeries struct {
	ID       string  `json:"id"`
	Created  string  `json:"created"`
	Modified string  `json:"modified"`
	Name     string  `json:"name"`
	Source   string    `json:"source,omitempty"`
	Task     []RawTask `json:"task"`
}

// RawTask is a single task instance as received, before any typing.
type RawTask struct {
	ID        string `json:"id"`
	Due       string `json:"due"`
	Added     string `json:"added"`
	Completed string `json:"completed"`
	Deleted   string `json:"deleted"`
	Priority  string `json:"priority"`
	Postponed string `json:"postponed"`
	Estimate  string `json:"estimate"`
}
