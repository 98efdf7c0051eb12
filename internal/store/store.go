package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-tracker/internal/task"
)

// Store runs task operations against a Backend.
type Store struct {
	backend        Backend
	now            func() time.Time
	logger         *log.Logger
	backupOnRepair bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBackupOnRepair keeps a copy of contents discarded by Ensure.
func WithBackupOnRepair(enabled bool) Option {
	return func(s *Store) {
		s.backupOnRepair = enabled
	}
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path names the storage location.
func (s *Store) Path() string {
	return s.backend.String()
}

// Ensure guarantees the backend holds a decodable collection.
// A missing file is created empty and a structurally broken one is reset
// to empty. List elements that are not task objects are reported in
// Diagnostics and left in place; see the package documentation.
func (s *Store) Ensure() (*EnsureReport, error) {
	unlock, err := s.backend.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := s.backend.Load()
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.save(&task.Collection{}); err != nil {
			return nil, err
		}
		s.logger.Debug("created task file", "file", s.backend)
		return &EnsureReport{Action: ActionCreated}, nil
	}
	if err != nil {
		return nil, err
	}

	c, skipped, decodeErr := task.DecodeRecords(data)
	if decodeErr != nil {
		report := &EnsureReport{Action: ActionRepaired, Reason: repairReason(decodeErr)}
		if s.backupOnRepair && len(data) > 0 {
			location, err := s.backend.Backup(data)
			if err != nil {
				return nil, err
			}
			report.Backup = location
		}
		if err := s.save(&task.Collection{}); err != nil {
			return nil, err
		}
		s.logger.Warn("reset unreadable task file",
			"file", s.backend, "reason", report.Reason, "discarded_bytes", len(data), "err", decodeErr)
		return report, nil
	}

	diagnostics := append(skipped, c.Check()...)
	report := &EnsureReport{Action: ActionNone, Tasks: c.Len(), Diagnostics: diagnostics}
	for _, d := range report.Diagnostics {
		s.logger.Warn("task file problem", "file", s.backend, "err", d)
	}
	return report, nil
}

// Add appends a new todo task with the next id.
func (s *Store) Add(description string) (*task.Task, error) {
	var added task.Task
	err := s.mutate(func(c *task.Collection) error {
		now := task.NewTimestamp(s.now())
		added = task.Task{
			ID:          c.NextID(),
			Description: description,
			Status:      task.StatusTodo,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		c.Append(added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("added task", "id", added.ID)
	return &added, nil
}

// Delete removes the task with the id. The file is rewritten even when
// nothing matched.
func (s *Store) Delete(id int) (Result, error) {
	result := ResultNotFound
	err := s.mutate(func(c *task.Collection) error {
		if c.Len() == 0 {
			result = ResultEmpty
			return nil
		}
		if c.Remove(id) {
			result = ResultDeleted
		}
		return nil
	})
	if err != nil {
		return ResultNotFound, err
	}
	s.logResult("delete", id, result)
	return result, nil
}

// Update applies changes to the task with the id and refreshes updatedAt,
// even when changes is empty. It returns a copy of the updated task.
// The file is rewritten even when nothing matched.
func (s *Store) Update(id int, changes Changes) (Result, *task.Task, error) {
	if changes.Status != nil && !changes.Status.Valid() {
		return ResultNotFound, nil, fmt.Errorf("update task %d: %w %q", id, task.ErrInvalidStatus, *changes.Status)
	}

	result := ResultNotFound
	var updated task.Task
	err := s.mutate(func(c *task.Collection) error {
		t := c.GetTask(id)
		if t == nil {
			return nil
		}
		if changes.Description != nil {
			t.Description = *changes.Description
		}
		if changes.Status != nil {
			t.Status = *changes.Status
		}
		t.Touch(s.now())
		updated = *t
		result = ResultUpdated
		return nil
	})
	if err != nil {
		return ResultNotFound, nil, err
	}
	s.logResult("update", id, result)
	if !result.Found() {
		return result, nil, nil
	}
	return result, &updated, nil
}

// SetStatus is Update with only a status change.
func (s *Store) SetStatus(id int, status task.Status) (Result, *task.Task, error) {
	return s.Update(id, Changes{Status: &status})
}

// List returns the tasks matching filter in collection order.
// It never writes.
func (s *Store) List(filter Filter) (*ListResult, error) {
	unlock, err := s.backend.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, skipped, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		s.logger.Warn("skipped task record", "file", s.backend, "err", e)
	}

	if !filter.Active() {
		tasks := c.Select(func(*task.Task) bool { return true })
		return &ListResult{Tasks: tasks, Count: len(tasks)}, nil
	}
	tasks := c.Select(filter.Match)
	return &ListResult{Tasks: tasks, Count: len(tasks), Filtered: true}, nil
}

// mutate runs fn between a locked load and save. The collection is saved
// whenever fn returns nil.
func (s *Store) mutate(fn func(*task.Collection) error) error {
	unlock, err := s.backend.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	c, skipped, err := s.load()
	if err != nil {
		return err
	}
	if len(skipped) > 0 {
		return fmt.Errorf("%s: %w: %v", s.backend, ErrUndecodableRecords, skipped[0])
	}
	if err := fn(c); err != nil {
		return err
	}
	return s.save(c)
}

// load treats a missing file as an empty collection. Elements that are not
// task objects are returned in skipped.
func (s *Store) load() (c *task.Collection, skipped []error, err error) {
	data, err := s.backend.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return &task.Collection{Tasks: []task.Task{}}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	c, skipped, err = task.DecodeRecords(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", s.backend, err)
	}
	s.logger.Debug("loaded task file", "file", s.backend, "tasks", c.Len(), "skipped", len(skipped))
	return c, skipped, nil
}

func (s *Store) save(c *task.Collection) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := s.backend.Save(data); err != nil {
		return err
	}
	s.logger.Debug("saved task file", "file", s.backend, "tasks", c.Len())
	return nil
}

func (s *Store) logResult(op string, id int, result Result) {
	if result.Found() {
		s.logger.Info(op+" task", "id", id, "result", result)
		return
	}
	s.logger.Info(op+" matched nothing", "id", id, "result", result)
}
