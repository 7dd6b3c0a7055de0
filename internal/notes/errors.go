package notes

import (
	"errors"
	"fmt"
)

// ErrNoteNotFound is returned when selecting an id the store does not hold.
var ErrNoteNotFound = errors.New("note not found")

// ReadError means the persisted collection could not be read or parsed.
// The store keeps running with an empty (or unchanged) collection.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read notes: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError means a mutation was applied in memory but could not be saved.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save notes: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ImportError means an import payload was rejected. Nothing was applied.
type ImportError struct {
	// Count is the number of notes imported, always 0.
	Count int
	// Index is the offending record, or -1 when the payload as a whole is bad.
	Index int
	Err   error
}

func (e *ImportError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("import failed: record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("import failed: %v", e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
