package store

import (
	"errors"

	"github.com/nibzard/task-tracker/internal/task"
)

// ErrNotFound is returned by Result.Err when no task matched.
var ErrNotFound = errors.New("task not found")

// ErrUndecodableRecords is returned by mutations while the file holds list
// elements that are not task objects. Rewriting the file would drop them.
var ErrUndecodableRecords = errors.New("task file has records that are not tasks")

// Result is the outcome of a mutating operation.
type Result int

const (
	// ResultNotFound means no task had the requested id.
	ResultNotFound Result = iota
	// ResultUpdated means the task was found and updatedAt refreshed.
	ResultUpdated
	// ResultDeleted means the task was removed.
	ResultDeleted
	// ResultEmpty means the collection had no tasks to search.
	ResultEmpty
)

func (r Result) String() string {
	switch r {
	case ResultUpdated:
		return "updated"
	case ResultDeleted:
		return "deleted"
	case ResultEmpty:
		return "empty"
	default:
		return "not found"
	}
}

// Found reports whether the operation matched a task.
func (r Result) Found() bool {
	return r == ResultUpdated || r == ResultDeleted
}

// Err returns ErrNotFound for outcomes that matched nothing, nil otherwise.
func (r Result) Err() error {
	if r.Found() {
		return nil
	}
	return ErrNotFound
}

// Changes lists the fields an update sets. Nil fields are left alone.
type Changes struct {
	Description *string
	Status      *task.Status
}

// Filter selects tasks by exact, case-sensitive field equality.
// Nil fields do not filter.
type Filter struct {
	Description *string
	Status      *task.Status
}

// Active reports whether any field filters.
func (f Filter) Active() bool {
	return f.Description != nil || f.Status != nil
}

// Match reports whether t satisfies every set field.
func (f Filter) Match(t *task.Task) bool {
	if f.Description != nil && t.Description != *f.Description {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}

// ListResult holds the tasks returned by List.
type ListResult struct {
	Tasks []task.Task
	// Count is the number of matches. It equals len(Tasks).
	Count int
	// Filtered is true when a filter was applied.
	Filtered bool
}

// EnsureAction says what Ensure did to the file.
type EnsureAction string

const (
	ActionNone     EnsureAction = "none"
	ActionCreated  EnsureAction = "created"
	ActionRepaired EnsureAction = "repaired"
)

// RepairReason says why a file was reset.
type RepairReason string

const (
	ReasonEmpty       RepairReason = "empty"
	ReasonUnparseable RepairReason = "unparseable"
	ReasonNotList     RepairReason = "not-a-list"
)

// EnsureReport describes the state of the task file after Ensure.
type EnsureReport struct {
	Action EnsureAction
	Reason RepairReason // set when Action is ActionRepaired
	Backup string       // where discarded contents went, if backed up
	Tasks  int          // number of tasks in the file
	// Diagnostics lists problems left in place.
	Diagnostics []error
}

func repairReason(err error) RepairReason {
	switch {
	case errors.Is(err, task.ErrEmpty):
		return ReasonEmpty
	case errors.Is(err, task.ErrNotList):
		return ReasonNotList
	default:
		return ReasonUnparseable
	}
}
