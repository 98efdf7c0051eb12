package store

import (
	"fmt"
	"io/fs"
	"sync"
)

// Backend reads and writes the raw bytes of a task file.
type Backend interface {
	// Load returns the stored bytes. A missing file yields an error
	// wrapping fs.ErrNotExist.
	Load() ([]byte, error)
	// Save replaces the stored bytes.
	Save(data []byte) error
	// Lock takes an exclusive lock and returns the function releasing it.
	Lock() (unlock func() error, err error)
	// Backup keeps a copy of data that is about to be discarded and
	// returns where it went.
	Backup(data []byte) (string, error)
	// String names the storage location for messages.
	String() string
}

// MemoryBackend keeps the task file in memory. It is safe for concurrent use.
type MemoryBackend struct {
	lockMu  sync.Mutex
	mu      sync.Mutex
	data    []byte
	exists  bool
	saves   int
	backups [][]byte
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns a backend with no stored file.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWith returns a backend whose file holds data.
func NewMemoryBackendWith(data []byte) *MemoryBackend {
	return &MemoryBackend{data: cloneBytes(data), exists: true}
}

// Load implements Backend.
func (m *MemoryBackend) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return nil, fmt.Errorf("load %s: %w", m, fs.ErrNotExist)
	}
	return cloneBytes(m.data), nil
}

// Save implements Backend.
func (m *MemoryBackend) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = cloneBytes(data)
	m.exists = true
	m.saves++
	return nil
}

// Lock implements Backend.
func (m *MemoryBackend) Lock() (func() error, error) {
	m.lockMu.Lock()
	return func() error {
		m.lockMu.Unlock()
		return nil
	}, nil
}

// Backup implements Backend.
func (m *MemoryBackend) Backup(data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups = append(m.backups, cloneBytes(data))
	return fmt.Sprintf("memory backup #%d", len(m.backups)), nil
}

func (m *MemoryBackend) String() string {
	return "memory"
}

// Bytes returns the stored file contents, or nil when no file exists.
func (m *MemoryBackend) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return nil
	}
	return cloneBytes(m.data)
}

// Saves returns how many times Save was called.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Backups returns the data passed to Backup, oldest first.
func (m *MemoryBackend) Backups() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.backups))
	for i, b := range m.backups {
		out[i] = cloneBytes(b)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
