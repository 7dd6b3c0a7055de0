package notes

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// memSlot is an in-memory Slot with injectable failures.
type memSlot struct {
	mu      sync.Mutex
	data    []byte
	loadErr error
	saveErr error
	saves   int
	backups [][]byte
}

func (m *memSlot) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data, nil
}

func (m *memSlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *memSlot) Backup(data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups = append(m.backups, append([]byte(nil), data...))
	return fmt.Sprintf("backup-%d", len(m.backups)), nil
}

// stepClock advances by one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T, slot Slot) *Store {
	t.Helper()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(slot, WithClock(stepClock(start)), WithIDGenerator(NewSequenceWithSeed("test")))
}

func strPtr(s string) *string { return &s }

func TestCreate_Defaults(t *testing.T) {
	s := newTestStore(t, &memSlot{})

	n, err := s.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.Title != "Untitled Note" {
		t.Errorf("title = %q, want %q", n.Title, "Untitled Note")
	}
	if n.Language != Plaintext {
		t.Errorf("language = %q, want plaintext", n.Language)
	}
	if n.Content != "" {
		t.Errorf("content = %q, want empty", n.Content)
	}
	if !n.CreatedAt.Equal(n.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", n.CreatedAt, n.UpdatedAt)
	}
	if got := s.SelectedID(); got != n.ID {
		t.Errorf("selected = %q, want %q", got, n.ID)
	}
	if s.State() != StatePopulated {
		t.Errorf("state = %v, want populated", s.State())
	}
}

func TestCreate_PrependsAndPersists(t *testing.T) {
	slot := &memSlot{}
	s := newTestStore(t, slot)

	first, _ := s.Create()
	second, _ := s.Create()

	got := s.Notes()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("order = [%s %s], want [%s %s]", got[0].ID, got[1].ID, second.ID, first.ID)
	}
	if slot.saves != 2 {
		t.Errorf("saves = %d, want 2", slot.saves)
	}

	reopened := newTestStore(t, slot)
	if reopened.Len() != 2 {
		t.Fatalf("reopened len = %d, want 2", reopened.Len())
	}
	if reopened.SelectedID() != second.ID {
		t.Errorf("reopened selection = %q, want first note %q", reopened.SelectedID(), second.ID)
	}
}

func TestCreate_DistinctIDs(t *testing.T) {
	// Frozen clock: every note is created in the same instant.
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(&memSlot{}, WithClock(func() time.Time { return frozen }))

	const n = 500
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(); err != nil {
				t.Errorf("Create: %v", err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, note := range s.Notes() {
		if seen[note.ID] {
			t.Fatalf("duplicate id %q", note.ID)
		}
		seen[note.ID] = true
	}
	if len(seen) != n {
		t.Errorf("distinct ids = %d, want %d", len(seen), n)
	}
}

func TestUpdate_MergesSelected(t *testing.T) {
	s := newTestStore(t, &memSlot{})
	other, _ := s.Create()
	n, _ := s.Create()

	lang := SQL
	if err := s.Update(Patch{Content: strPtr("SELECT 1;"), Language: &lang}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(n.ID)
	if got.Content != "SELECT 1;" || got.Language != SQL {
		t.Errorf("got content=%q language=%q", got.Content, got.Language)
	}
	if got.Title != DefaultTitle {
		t.Errorf("title changed to %q", got.Title)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("updatedAt %v not after createdAt %v", got.UpdatedAt, got.CreatedAt)
	}
	if !got.CreatedAt.Equal(n.CreatedAt) {
		t.Errorf("createdAt moved from %v to %v", n.CreatedAt, got.CreatedAt)
	}

	untouched, _ := s.Get(other.ID)
	if !untouched.UpdatedAt.Equal(other.UpdatedAt) {
		t.Errorf("unselected note was modified")
	}
}

func TestUpdate_NoSelectionIsNoop(t *testing.T) {
	slot := &memSlot{}
	s := newTestStore(t, slot)
	n, _ := s.Create()
	if err := s.Select(""); err != nil {
		t.Fatalf("Select: %v", err)
	}
	saves := slot.saves

	if err := s.Update(Patch{Title: strPtr("changed")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.Get(n.ID)
	if got.Title != DefaultTitle {
		t.Errorf("title = %q, want unchanged", got.Title)
	}
	if slot.saves != saves {
		t.Errorf("no-op update persisted")
	}
}

func TestUpdate_ClockSkewKeepsOrdering(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	s := New(&memSlot{}, WithClock(func() time.Time {
		t := times[i%len(times)]
		i++
		return t
	}))
	n, _ := s.Create()
	if err := s.Update(Patch{Title: strPtr("x")}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(n.ID)
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("updatedAt %v before createdAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestDelete_Selection(t *testing.T) {
	tests := []struct {
		name         string
		notes        int
		deleteIndex  int
		selectIndex  int
		wantSelected int // index into remaining, -1 for none
	}{
		{"delete selected first", 3, 0, 0, 0},
		{"delete selected middle", 3, 1, 1, 0},
		{"delete unselected keeps selection", 3, 2, 1, 1},
		{"delete last note", 1, 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, &memSlot{})
			for i := 0; i < tt.notes; i++ {
				if _, err := s.Create(); err != nil {
					t.Fatal(err)
				}
			}
			all := s.Notes()
			if err := s.Select(all[tt.selectIndex].ID); err != nil {
				t.Fatal(err)
			}
			if err := s.Delete(all[tt.deleteIndex].ID); err != nil {
				t.Fatal(err)
			}

			remaining := s.Notes()
			if len(remaining) != tt.notes-1 {
				t.Fatalf("len = %d, want %d", len(remaining), tt.notes-1)
			}
			got := s.SelectedID()
			if tt.wantSelected < 0 {
				if got != "" {
					t.Errorf("selected = %q, want none", got)
				}
				if s.State() != StateEmpty {
					t.Errorf("state = %v, want empty", s.State())
				}
				return
			}
			if got != remaining[tt.wantSelected].ID {
				t.Errorf("selected = %q, want %q", got, remaining[tt.wantSelected].ID)
			}
			if _, ok := s.Selected(); !ok {
				t.Errorf("selection dangles")
			}
		})
	}
}

func TestDelete_UnknownID(t *testing.T) {
	slot := &memSlot{}
	s := newTestStore(t, slot)
	s.Create()
	saves := slot.saves

	if err := s.Delete("nt-missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Len() != 1 || slot.saves != saves {
		t.Errorf("unknown delete changed the store")
	}
}

func TestSelect_UnknownID(t *testing.T) {
	s := newTestStore(t, &memSlot{})
	n, _ := s.Create()

	err := s.Select("nt-missing")
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("err = %v, want ErrNoteNotFound", err)
	}
	if s.SelectedID() != n.ID {
		t.Errorf("selection changed to %q", s.SelectedID())
	}
}

func TestTimestampInvariant_MixedSequence(t *testing.T) {
	s := newTestStore(t, &memSlot{})
	for i := 0; i < 20; i++ {
		switch i % 4 {
		case 0, 1:
			s.Create()
		case 2:
			s.Update(Patch{Content: strPtr(fmt.Sprintf("body %d", i))})
		case 3:
			if all := s.Notes(); len(all) > 0 {
				s.Delete(all[len(all)-1].ID)
			}
		}
		for _, n := range s.Notes() {
			if n.UpdatedAt.Before(n.CreatedAt) {
				t.Fatalf("step %d: note %s updatedAt before createdAt", i, n.ID)
			}
		}
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t, &memSlot{})
	seed := []struct{ title, content string }{
		{"Groceries", "milk, eggs"},
		{"SQL scratch", "SELECT * FROM users;"},
		{"Ideas", "a new Grocery app"},
	}
	for _, n := range seed {
		s.Create()
		s.Update(Patch{Title: strPtr(n.title), Content: strPtr(n.content)})
	}
	all := s.Notes()

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Ideas", "SQL scratch", "Groceries"}},
		{"grocer", []string{"Ideas", "Groceries"}},
		{"select", []string{"SQL scratch"}},
		{"MILK", []string{"Groceries"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		got := s.Search(tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q) len = %d, want %d", tt.query, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Title != tt.want[i] {
				t.Errorf("Search(%q)[%d] = %q, want %q", tt.query, i, got[i].Title, tt.want[i])
			}
		}
	}
	if len(s.Search("")) != len(all) {
		t.Errorf("empty query did not return all notes")
	}
}

func TestLoad_CorruptSlot(t *testing.T) {
	s := newTestStore(t, &memSlot{data: []byte("{not json")})

	if s.State() != StateEmpty {
		t.Errorf("state = %v, want empty", s.State())
	}
	var re *ReadError
	if !errors.As(s.LoadErr(), &re) {
		t.Fatalf("LoadErr = %v, want *ReadError", s.LoadErr())
	}
	if _, err := s.Create(); err != nil {
		t.Errorf("store unusable after read error: %v", err)
	}
}

func TestUpdate_InvalidUTF8MatchesPersisted(t *testing.T) {
	slot := &memSlot{}
	s := newTestStore(t, slot)
	if _, err := s.Create(); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(Patch{Title: strPtr("t\xff"), Content: strPtr("a\xffb\tc")}); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Selected()
	if got.Content != "a\uFFFDb\tc" || got.Title != "t\uFFFD" {
		t.Errorf("got title %q content %q", got.Title, got.Content)
	}
	reloaded, _ := New(slot).Selected()
	if reloaded.Content != got.Content || reloaded.Title != got.Title {
		t.Errorf("persisted %q/%q, memory %q/%q", reloaded.Title, reloaded.Content, got.Title, got.Content)
	}
}

func TestLoad_CorruptSlotBackedUpBeforeWrite(t *testing.T) {
	corrupt := []byte(`[{"id":"a","createdAt":"33658-09-27T01:46:40Z"}]`)
	slot := &memSlot{data: corrupt}
	s := newTestStore(t, slot)
	if s.LoadErr() == nil {
		t.Fatal("expected a load error")
	}

	if _, err := s.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if len(slot.backups) != 1 {
		t.Fatalf("backups = %d, want 1", len(slot.backups))
	}
	if string(slot.backups[0]) != string(corrupt) {
		t.Errorf("backup = %s, want %s", slot.backups[0], corrupt)
	}
	if New(slot).Len() != 2 {
		t.Errorf("slot should now hold the two new notes")
	}
}

// readOnlySlot is a Slot that cannot back anything up.
type readOnlySlot struct {
	data  []byte
	saves int
}

func (r *readOnlySlot) Load() ([]byte, error) { return r.data, nil }

func (r *readOnlySlot) Save(data []byte) error {
	r.data = data
	r.saves++
	return nil
}

func TestLoad_UnreadableSlotNotOverwrittenWithoutBackup(t *testing.T) {
	slot := &readOnlySlot{data: []byte("{not json")}
	s := newTestStore(t, slot)

	n, err := s.Create()
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("err = %v, want *WriteError", err)
	}
	if _, ok := s.Get(n.ID); !ok {
		t.Error("note should still exist in memory")
	}
	if slot.saves != 0 {
		t.Errorf("unreadable slot overwritten %d times", slot.saves)
	}
}

func TestLoad_SlotErrorBlocksWrites(t *testing.T) {
	slot := &memSlot{loadErr: errors.New("disk gone")}
	s := newTestStore(t, slot)

	if _, err := s.Create(); err == nil {
		t.Fatal("Create should not write over a slot that cannot be read")
	}
	if slot.saves != 0 {
		t.Errorf("saves = %d, want 0", slot.saves)
	}

	slot.mu.Lock()
	slot.loadErr = nil
	slot.mu.Unlock()
	if _, err := s.Create(); err != nil {
		t.Fatalf("Create after recovery: %v", err)
	}
	if slot.saves != 1 {
		t.Errorf("saves = %d, want 1", slot.saves)
	}
}

func TestLoad_SlotError(t *testing.T) {
	s := newTestStore(t, &memSlot{loadErr: errors.New("disk gone")})
	var re *ReadError
	if !errors.As(s.LoadErr(), &re) {
		t.Fatalf("LoadErr = %v, want *ReadError", s.LoadErr())
	}
}

func TestLoad_IgnoresUnknownFields(t *testing.T) {
	payload := `[{"id":"a","title":"T","content":"c","language":"cobol","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-02T00:00:00Z","pinned":true,"tags":["x"]}]`
	s := newTestStore(t, &memSlot{data: []byte(payload)})

	if err := s.LoadErr(); err != nil {
		t.Fatalf("LoadErr: %v", err)
	}
	n, ok := s.Get("a")
	if !ok {
		t.Fatal("note a not loaded")
	}
	if n.Language != "cobol" {
		t.Errorf("language = %q, want verbatim %q", n.Language, "cobol")
	}
	if n.Language.Highlighted() {
		t.Errorf("unknown language should not be highlighted")
	}
}

func TestWriteError_KeepsMemoryState(t *testing.T) {
	slot := &memSlot{saveErr: errors.New("quota exceeded")}
	s := newTestStore(t, slot)

	n, err := s.Create()
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("err = %v, want *WriteError", err)
	}
	if _, ok := s.Get(n.ID); !ok {
		t.Errorf("note lost after write failure")
	}

	err = s.Update(Patch{Content: strPtr("still here")})
	if !IsWriteError(err) {
		t.Fatalf("err = %v, want *WriteError", err)
	}
	got, _ := s.Selected()
	if got.Content != "still here" {
		t.Errorf("content = %q, want in-memory update applied", got.Content)
	}
}

func TestReload(t *testing.T) {
	slot := &memSlot{}
	s := newTestStore(t, slot)
	a, _ := s.Create()
	s.Create()

	// Another writer replaces the slot with only note a.
	other := newTestStore(t, slot)
	for _, n := range other.Notes() {
		if n.ID != a.ID {
			other.Delete(n.ID)
		}
	}

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	if s.SelectedID() != a.ID {
		t.Errorf("selected = %q, want %q", s.SelectedID(), a.ID)
	}

	slot.data = []byte("garbage")
	var re *ReadError
	if err := s.Reload(); !errors.As(err, &re) {
		t.Fatalf("err = %v, want *ReadError", err)
	}
	if s.Len() != 1 {
		t.Errorf("failed reload changed the collection")
	}
}
