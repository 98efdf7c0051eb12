package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileBackend stores the task file on the local filesystem.
type FileBackend struct {
	path   string
	atomic bool
	lock   *flock.Flock
}

var _ Backend = (*FileBackend)(nil)

// FileOption configures a FileBackend.
type FileOption func(*FileBackend)

// WithAtomicWrite selects write-to-temp-then-rename (true, the default) or
// truncate-and-rewrite in place (false).
func WithAtomicWrite(enabled bool) FileOption {
	return func(b *FileBackend) {
		b.atomic = enabled
	}
}

// WithLocking enables (the default) or disables the advisory lock on
// "<path>.lock".
func WithLocking(enabled bool) FileOption {
	return func(b *FileBackend) {
		if enabled {
			b.lock = flock.New(b.path + ".lock")
		} else {
			b.lock = nil
		}
	}
}

// NewFileBackend creates a backend for the file at path.
func NewFileBackend(path string, opts ...FileOption) *FileBackend {
	b := &FileBackend{
		path:   path,
		atomic: true,
		lock:   flock.New(path + ".lock"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the task file path.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) String() string {
	return b.path
}

// Load implements Backend.
func (b *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return data, nil
}

// Save implements Backend.
func (b *FileBackend) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("create task file directory: %w", err)
	}
	if !b.atomic {
		if err := os.WriteFile(b.path, data, 0644); err != nil {
			return fmt.Errorf("write task file: %w", err)
		}
		return nil
	}
	return b.writeAtomic(data)
}

// writeAtomic writes to a temp file in the same directory and renames it
// over the target, so readers see either the old or the new contents.
func (b *FileBackend) writeAtomic(data []byte) (err error) {
	dir, base := filepath.Split(b.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp task file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp task file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp task file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp task file: %w", err)
	}
	// Keep the permissions of an existing file.
	mode := os.FileMode(0644)
	if info, statErr := os.Stat(b.path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp task file: %w", err)
	}
	if err = os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

// Lock implements Backend. Without locking it returns a no-op unlock.
func (b *FileBackend) Lock() (func() error, error) {
	if b.lock == nil {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return nil, fmt.Errorf("create task file directory: %w", err)
	}
	if err := b.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock task file: %w", err)
	}
	return b.lock.Unlock, nil
}

// Backup implements Backend by writing "<path>.bak".
func (b *FileBackend) Backup(data []byte) (string, error) {
	backupPath := b.path + ".bak"
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}
