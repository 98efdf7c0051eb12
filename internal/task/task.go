package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the on-disk timestamp format.
const TimeLayout = "2006-01-02 15:04:05"

// ErrInvalidStatus is returned for a status outside the defined set.
var ErrInvalidStatus = errors.New("invalid status")

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts user input to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w %q, must be one of: todo, in-progress, done", ErrInvalidStatus, s)
	}
	return status, nil
}

// Timestamp is a second-precision local time stored as "YYYY-MM-DD HH:MM:SS".
type Timestamp struct {
	time.Time
	raw string // original text when it did not parse
}

// NewTimestamp truncates t to the second in local time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second).Local()}
}

// ParseTimestamp parses the on-disk format in local time.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

// Valid reports whether the timestamp holds a parsed time.
func (ts Timestamp) Valid() bool {
	return ts.raw == "" && !ts.Time.IsZero()
}

func (ts Timestamp) String() string {
	if ts.raw != "" {
		return ts.raw
	}
	if ts.Time.IsZero() {
		return ""
	}
	return ts.Time.Format(TimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler. Text that does not parse is
// kept as-is instead of failing the whole document.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		*ts = Timestamp{raw: s}
		return nil
	}
	*ts = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (ts Timestamp) MarshalYAML() (interface{}, error) {
	return ts.String(), nil
}

// Task represents a single tracked unit of work.
type Task struct {
	ID          int       `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Status      Status    `json:"status" yaml:"status"`
	CreatedAt   Timestamp `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt" yaml:"updatedAt"`
}

// IsZero returns true if the task has no ID.
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Touch sets updatedAt to now, never earlier than createdAt.
func (t *Task) Touch(now time.Time) {
	ts := NewTimestamp(now)
	if t.CreatedAt.Valid() && ts.Before(t.CreatedAt.Time) {
		ts = t.CreatedAt
	}
	t.UpdatedAt = ts
}
