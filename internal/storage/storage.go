// Package storage provides the durable slots the note collection is saved to.
package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/marcus/codenotes/internal/config"
	"github.com/marcus/codenotes/internal/notes"
)

// Slot is a notes.Slot that holds resources until closed and can set
// aside a payload the store failed to read.
type Slot interface {
	notes.Slot
	notes.Backuper
	Close() error
}

// backupSuffix names a backup copy of the slot taken at now.
func backupSuffix(now time.Time) string {
	return ".corrupt-" + now.UTC().Format("20060102T150405.000000000Z")
}

// Open returns the slot selected by cfg.Storage.
func Open(cfg *config.Config, logger *slog.Logger) (Slot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := cfg.StoragePath()
	logger = logger.With("backend", cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case config.BackendFile:
		logger.Debug("open storage", "path", path)
		return NewFileSlot(path, WithFileLogger(logger)), nil
	case config.BackendSQLite:
		logger.Debug("open storage", "path", path, "driver", cfg.Storage.Driver)
		return OpenSQLSlot(cfg.Storage.Driver, path, cfg.Storage.Key)
	case config.BackendBadger:
		logger.Debug("open storage", "path", path)
		return OpenBadgerSlot(path, cfg.Storage.Key)
	case config.BackendMemory:
		return NewMemorySlot(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
