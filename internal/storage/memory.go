package storage

import (
	"fmt"
	"sync"
)

// MemorySlot is a process-local slot. Failures can be injected for testing
// how callers handle unreadable or unwritable storage.
type MemorySlot struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
	backups [][]byte
}

// NewMemorySlot returns a slot primed with data.
func NewMemorySlot(data []byte) *MemorySlot {
	return &MemorySlot{data: data}
}

// FailLoad makes subsequent loads return err. Nil clears it.
func (m *MemorySlot) FailLoad(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

// FailSave makes subsequent saves return err. Nil clears it.
func (m *MemorySlot) FailSave(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// Load returns a copy of the stored payload.
func (m *MemorySlot) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

// Save stores a copy of data.
func (m *MemorySlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

// Backup keeps a copy of data; see Backups.
func (m *MemorySlot) Backup(data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups = append(m.backups, append([]byte(nil), data...))
	return fmt.Sprintf("memory backup %d", len(m.backups)), nil
}

// Backups returns the payloads set aside by Backup, oldest first.
func (m *MemorySlot) Backups() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.backups))
	for i, b := range m.backups {
		out[i] = append([]byte(nil), b...)
	}
	return out
}

// Close is a no-op.
func (m *MemorySlot) Close() error { return nil }
