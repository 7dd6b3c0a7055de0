// Package notes holds the note collection, its selection and its persistence.
package notes

import (
	"strings"
	"time"
)

// DefaultTitle is given to every freshly created note.
const DefaultTitle = "Untitled Note"

// Note represents a single note.
type Note struct {
	ID        string
	Title     string
	Content   string
	Language  Language
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title    *string
	Content  *string
	Language *Language
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Language == nil
}

// State is the coarse state of a store.
type State int

const (
	// StateEmpty means no notes and no selection.
	StateEmpty State = iota
	// StatePopulated means at least one note; the selection may be empty.
	StatePopulated
)

func (s State) String() string {
	if s == StateEmpty {
		return "empty"
	}
	return "populated"
}

// apply merges p into n and stamps UpdatedAt, never moving it before CreatedAt.
// apply merges p into n. Text is kept as valid UTF-8, with invalid bytes
// replaced by U+FFFD the same way JSON decoding replaces them, so the note in
// memory always equals what the slot reads back.
func (n *Note) apply(p Patch, now time.Time) {
	if p.Title != nil {
		n.Title = strings.ToValidUTF8(*p.Title, "\uFFFD")
	}
	if p.Content != nil {
		n.Content = strings.ToValidUTF8(*p.Content, "\uFFFD")
	}
	if p.Language != nil {
		n.Language = *p.Language
	}
	n.touch(now)
}

func (n *Note) touch(now time.Time) {
	if now.Before(n.CreatedAt) {
		now = n.CreatedAt
	}
	n.UpdatedAt = now
}
