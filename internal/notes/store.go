package notes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Slot is the durable key/value slot the collection is persisted to.
// Load returns nil data and nil error when nothing has been saved yet.
type Slot interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Backuper is implemented by slots that can set aside a payload the store
// could not read, before the first write replaces it. Backup returns where
// the copy went.
type Backuper interface {
	Backup(data []byte) (string, error)
}

// Store owns the note collection and the current selection.
// Notes are kept in display order, newest first. All methods are safe
// for concurrent use.
type Store struct {
	mu       sync.Mutex
	slot     Slot
	notes    []Note
	selected string
	loadErr  error
	// unreadable is set while the slot may still hold a payload that failed
	// to load and has not been backed up yet.
	unreadable bool

	ids    IDGenerator
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDGenerator replaces the default id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store and loads the persisted collection from slot.
// A read failure is logged and leaves the store empty; see LoadErr.
// The first note, if any, starts selected.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		ids:    NewSequence(),
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := s.read()
	if err != nil {
		s.loadErr = err
		s.unreadable = true
		s.logger.Error("load notes", "err", err)
		return s
	}
	s.notes = loaded
	if len(s.notes) > 0 {
		s.selected = s.notes[0].ID
	}
	s.logger.Debug("notes loaded", "count", len(s.notes))
	return s
}

// LoadErr returns the *ReadError from startup, or nil.
func (s *Store) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *Store) read() ([]Note, error) {
	if s.slot == nil {
		return nil, nil
	}
	data, err := s.slot.Load()
	if err != nil {
		return nil, &ReadError{Err: err}
	}
	loaded, err := decodeStored(data, s.ids, s.clock())
	if err != nil {
		return nil, &ReadError{Err: err}
	}
	return loaded, nil
}

// clock returns the current time in UTC without the monotonic reading,
// so in-memory timestamps compare equal to their persisted form.
func (s *Store) clock() time.Time {
	return s.now().UTC().Round(0)
}

// persist writes the whole collection. Callers hold s.mu, which keeps
// writes in mutation order. After a failed load nothing is written until the
// unreadable payload has been backed up.
func (s *Store) persist() error {
	if s.slot == nil {
		return nil
	}
	if s.unreadable {
		if err := s.backupUnreadable(); err != nil {
			s.logger.Error("back up unreadable notes", "err", err)
			return &WriteError{Err: err}
		}
		s.unreadable = false
	}
	data, err := encodeNotes(s.notes, false)
	if err != nil {
		return &WriteError{Err: fmt.Errorf("encode: %w", err)}
	}
	if err := s.slot.Save(data); err != nil {
		s.logger.Error("save notes", "err", err)
		return &WriteError{Err: err}
	}
	return nil
}

func (s *Store) backupUnreadable() error {
	data, err := s.slot.Load()
	if err != nil {
		return fmt.Errorf("slot still unreadable, not overwriting it: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	b, ok := s.slot.(Backuper)
	if !ok {
		return errors.New("slot holds unreadable notes and cannot back them up")
	}
	where, err := b.Backup(data)
	if err != nil {
		return fmt.Errorf("back up unreadable notes: %w", err)
	}
	s.logger.Warn("unreadable notes backed up", "to", where)
	return nil
}

// Create prepends a new empty note and selects it. The only possible error is
// a *WriteError, in which case the note still exists in memory.
func (s *Store) Create() (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	n := Note{
		ID:        s.ids.NewID(),
		Title:     DefaultTitle,
		Language:  Plaintext,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes = append([]Note{n}, s.notes...)
	s.selected = n.ID
	return n, s.persist()
}

// Update merges p into the selected note and refreshes its UpdatedAt.
// It is a no-op when nothing is selected.
func (s *Store) Update(p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.selected)
	if i < 0 {
		return nil
	}
	s.notes[i].apply(p, s.clock())
	return s.persist()
}

// Delete removes a note. When it was selected, the selection moves to the
// first remaining note, or is cleared. Unknown ids are ignored.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
	if s.selected == id {
		s.selected = ""
		if len(s.notes) > 0 {
			s.selected = s.notes[0].ID
		}
	}
	return s.persist()
}

// Select makes id the selected note. An empty id clears the selection.
// Unknown ids return ErrNoteNotFound and leave the selection unchanged.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.indexOf(id) < 0 {
		return fmt.Errorf("select %q: %w", id, ErrNoteNotFound)
	}
	s.selected = id
	return nil
}

// SelectedID returns the selected id, or "" when nothing is selected.
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Selected returns a copy of the selected note.
func (s *Store) Selected() (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(s.selected); i >= 0 {
		return s.notes[i], true
	}
	return Note{}, false
}

// Get returns a copy of the note with the given id.
func (s *Store) Get(id string) (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return Note{}, false
}

// Notes returns a copy of the collection in display order.
func (s *Store) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// State reports whether the store holds any notes.
func (s *Store) State() State {
	if s.Len() == 0 {
		return StateEmpty
	}
	return StatePopulated
}

// Search returns the notes whose title or content contains query,
// case-insensitively, in display order. An empty query matches everything.
func (s *Store) Search(query string) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		out := make([]Note, len(s.notes))
		copy(out, s.notes)
		return out
	}
	q := strings.ToLower(query)
	var out []Note
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// Export serializes the whole collection as an indented JSON array.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := encodeNotes(s.notes, true)
	if err != nil {
		return nil, fmt.Errorf("export notes: %w", err)
	}
	return data, nil
}

// ExportFilename returns the conventional export file name for t, dated in UTC.
func ExportFilename(t time.Time) string {
	return "notes-export-" + t.UTC().Format("2006-01-02") + ".json"
}

// Import parses payload and prepends its records with fresh ids, in payload
// order. A malformed payload returns 0 and an *ImportError and changes nothing.
// A *WriteError means the notes were imported but not saved.
func (s *Store) Import(payload []byte) (int, error) {
	imported, err := decodeImport(payload, s.ids)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(imported) == 0 {
		return 0, nil
	}
	s.notes = append(imported, s.notes...)
	return len(imported), s.persist()
}

// Reload replaces the collection with what the slot currently holds.
// The selection survives when its note still exists, otherwise the first note
// is selected. On failure the collection is left untouched.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.read()
	if err != nil {
		return err
	}
	s.notes = loaded
	s.loadErr = nil
	s.unreadable = false
	if s.indexOf(s.selected) < 0 {
		s.selected = ""
		if len(s.notes) > 0 {
			s.selected = s.notes[0].ID
		}
	}
	return nil
}

// Save re-persists the collection as it is.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// IsWriteError reports whether err is a failed save of an applied mutation.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
