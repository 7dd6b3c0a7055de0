package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// FileSlot stores the collection as a single JSON file.
// Writes go through a temp file and a rename so readers never see a torn file.
type FileSlot struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	lastHash uint64
	hashed   bool
	pending  map[uint64]int // hashes of writes not yet renamed into place
}

// FileOption configures a FileSlot.
type FileOption func(*FileSlot)

// WithFileLogger sets the logger used by the slot and its watcher.
func WithFileLogger(l *slog.Logger) FileOption {
	return func(f *FileSlot) { f.logger = l }
}

// NewFileSlot returns a slot backed by the file at path.
func NewFileSlot(path string, opts ...FileOption) *FileSlot {
	f := &FileSlot{
		path:   path,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the backing file path.
func (f *FileSlot) Path() string { return f.path }

// Load reads the file. A missing file is not an error.
func (f *FileSlot) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.remember(data)
	return data, nil
}

// Save atomically replaces the file with data.
func (f *FileSlot) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".notes-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}

	h := f.beginWrite(data)
	err = os.Rename(tmpName, f.path)
	f.endWrite(h, err == nil)
	if err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Backup copies data next to the slot file and returns the copy's path.
func (f *FileSlot) Backup(data []byte) (string, error) {
	path := f.path + backupSuffix(time.Now())
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close backup: %w", err)
	}
	return path, nil
}

// Close is a no-op; FileSlot holds no open handles.
func (f *FileSlot) Close() error { return nil }

func (f *FileSlot) remember(data []byte) {
	f.mu.Lock()
	f.lastHash = xxhash.Sum64(data)
	f.hashed = true
	f.mu.Unlock()
}

// beginWrite marks data as our own write until endWrite. Until then the
// watcher may see either the old or the new content, and neither is external.
func (f *FileSlot) beginWrite(data []byte) uint64 {
	h := xxhash.Sum64(data)
	f.mu.Lock()
	if f.pending == nil {
		f.pending = make(map[uint64]int)
	}
	f.pending[h]++
	f.mu.Unlock()
	return h
}

func (f *FileSlot) endWrite(h uint64, written bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending[h]--; f.pending[h] <= 0 {
		delete(f.pending, h)
	}
	if written {
		f.lastHash = h
		f.hashed = true
	}
}

// changed reports whether data differs from the last payload read or written
// and from any write in flight, and remembers it.
func (f *FileSlot) changed(data []byte) bool {
	h := xxhash.Sum64(data)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending[h] > 0 || (f.hashed && h == f.lastHash) {
		return false
	}
	f.lastHash = h
	f.hashed = true
	return true
}
