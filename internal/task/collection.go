package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Decode failures. ErrEmpty, ErrUnparseable and ErrNotList mark a file that
// cannot be read as a collection at all. ErrMalformed marks a list with
// elements that are not task objects.
var (
	ErrEmpty       = errors.New("task file is empty")
	ErrUnparseable = errors.New("task file is not valid JSON")
	ErrNotList     = errors.New("task file is not a list")
	ErrMalformed   = errors.New("task file contains malformed tasks")
)

// Collection is the ordered set of tasks stored in one file.
// Insertion order is creation order.
type Collection struct {
	Tasks []Task

	// index maps Tasks to their element position in the decoded file when
	// malformed elements were skipped. Nil means positions match.
	index []int
}

// Decode parses a task file. The returned error wraps one of ErrEmpty,
// ErrUnparseable, ErrNotList or ErrMalformed.
func Decode(data []byte) (*Collection, error) {
	c, skipped, err := DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		return nil, skipped[0]
	}
	return c, nil
}

// DecodeRecords parses a task file one element at a time. Structural
// failures return an error wrapping ErrEmpty, ErrUnparseable or ErrNotList.
// Elements that do not decode as tasks are left out of the collection and
// returned as *ValidationError values wrapping ErrMalformed.
func DecodeRecords(data []byte) (*Collection, []error, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, ErrEmpty
	}
	if !json.Valid(trimmed) {
		return nil, nil, ErrUnparseable
	}
	if trimmed[0] != '[' {
		return nil, nil, ErrNotList
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	c := &Collection{Tasks: make([]Task, 0, len(raw))}
	var skipped []error
	index := make([]int, 0, len(raw))
	for i, elem := range raw {
		var t Task
		if err := json.Unmarshal(elem, &t); err != nil {
			skipped = append(skipped, &ValidationError{
				Path: fmt.Sprintf("[%d]", i),
				Err:  fmt.Errorf("%w: %v", ErrMalformed, err),
			})
			continue
		}
		c.Tasks = append(c.Tasks, t)
		index = append(index, i)
	}
	if len(skipped) > 0 {
		c.index = index
	}
	return c, skipped, nil
}

// Encode writes the collection with 4-space indentation and a trailing newline.
func (c *Collection) Encode() ([]byte, error) {
	tasks := c.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}
	return append(data, '\n'), nil
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return len(c.Tasks)
}

// NextID returns the highest id plus one, or 1 for an empty collection.
// Ids of deleted tasks are not reused while a higher id remains.
func (c *Collection) NextID() int {
	highest := 0
	for i := range c.Tasks {
		if c.Tasks[i].ID > highest {
			highest = c.Tasks[i].ID
		}
	}
	return highest + 1
}

// Append adds a task at the end of the collection.
func (c *Collection) Append(t Task) {
	c.index = nil
	c.Tasks = append(c.Tasks, t)
}

// GetTask returns the first task with the id, or nil if not found.
func (c *Collection) GetTask(id int) *Task {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

// Remove deletes the first task with the id and reports whether one was found.
func (c *Collection) Remove(id int) bool {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			c.index = nil
			c.Tasks = append(c.Tasks[:i], c.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Select returns the tasks for which match returns true, in collection order.
func (c *Collection) Select(match func(*Task) bool) []Task {
	selected := make([]Task, 0)
	for i := range c.Tasks {
		if match(&c.Tasks[i]) {
			selected = append(selected, c.Tasks[i])
		}
	}
	return selected
}

// Check reports field and invariant problems that do not prevent decoding.
func (c *Collection) Check() []error {
	var errs []error
	for i := range c.Tasks {
		path := c.path(i)
		if err := checkFields(&c.Tasks[i], path); err != nil {
			errs = append(errs, err...)
		}
	}
	return append(errs, c.checkInvariants()...)
}

func checkFields(t *Task, path string) []error {
	var errs []error
	if t.ID < 1 {
		errs = append(errs, &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("must be a positive integer, got %d", t.ID),
		})
	}
	if !t.Status.Valid() {
		errs = append(errs, &ValidationError{
			Path: path + ".status",
			Err:  fmt.Errorf("%w %q, must be one of: todo, in-progress, done", ErrInvalidStatus, t.Status),
		})
	}
	if !t.CreatedAt.Valid() {
		errs = append(errs, &ValidationError{
			Path: path + ".createdAt",
			Err:  fmt.Errorf("invalid timestamp %q", t.CreatedAt.String()),
		})
	}
	if !t.UpdatedAt.Valid() {
		errs = append(errs, &ValidationError{
			Path: path + ".updatedAt",
			Err:  fmt.Errorf("invalid timestamp %q", t.UpdatedAt.String()),
		})
	}
	return errs
}

// checkInvariants covers what the JSON Schema cannot express.
func (c *Collection) checkInvariants() []error {
	var errs []error
	seen := make(map[int]int, len(c.Tasks))
	for i := range c.Tasks {
		t := &c.Tasks[i]
		path := c.path(i)
		if first, ok := seen[t.ID]; ok {
			errs = append(errs, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %d (first at %s)", t.ID, c.path(first)),
			})
		} else {
			seen[t.ID] = i
		}
		if t.CreatedAt.Valid() && t.UpdatedAt.Valid() && t.UpdatedAt.Before(t.CreatedAt.Time) {
			errs = append(errs, &ValidationError{
				Path: path + ".updatedAt",
				Err:  fmt.Errorf("%s is before createdAt %s", t.UpdatedAt, t.CreatedAt),
			})
		}
	}
	return errs
}

// path names the file element holding Tasks[i].
func (c *Collection) path(i int) string {
	if c.index != nil && len(c.index) == len(c.Tasks) {
		return fmt.Sprintf("[%d]", c.index[i])
	}
	return fmt.Sprintf("[%d]", i)
}
