package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/codenotes/internal/notes"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) (Model, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, cmds
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 1},
		{"one", 1},
		{"a\nb", 2},
		{"a\n", 2},
		{"\n\n\n", 4},
	}
	for _, tt := range tests {
		m := New(nil)
		m.SetNote("n", tt.content, notes.Plaintext)
		if got := m.LineCount(); got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.content, got, tt.want)
		}
		if got := len(m.GutterLabels()); got != tt.want {
			t.Errorf("gutter labels for %q = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestGutterTracksEdits(t *testing.T) {
	m := New(nil)
	m.SetNote("n", "x", notes.Plaintext)
	m.Focus()
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnd}, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", m.LineCount())
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.LineCount() != 2 {
		t.Errorf("LineCount after backspace = %d, want 2", m.LineCount())
	}
}

func TestLanguageSwitchOverlay(t *testing.T) {
	m := New(nil)
	m.SetSize(60, 5)
	m.SetNote("n", "SELECT * FROM x;", notes.Plaintext)

	if m.Overlay() != nil {
		t.Fatal("plaintext should have no overlay")
	}

	m.SetLanguage(notes.SQL)
	overlay := m.Overlay()
	if overlay == nil {
		t.Fatal("sql should have an overlay")
	}
	var keyword bool
	for _, sp := range overlay[0] {
		if sp.Kind.InCategory(chroma.Keyword) {
			keyword = true
		}
	}
	if !keyword {
		t.Errorf("overlay has no keyword span: %+v", overlay[0])
	}

	m.SetLanguage(notes.Plaintext)
	if m.Overlay() != nil {
		t.Error("switching back to plaintext should drop the overlay")
	}
	if !strings.Contains(ansi.Strip(m.View()), "SELECT * FROM x;") {
		t.Errorf("raw text not drawn:\n%s", m.View())
	}
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	m := New(nil)
	m.SetNote("n", "IDENTIFICATION DIVISION.", notes.Language("cobol"))
	if m.Highlighted() {
		t.Error("unknown language should draw plain")
	}
	if !strings.Contains(ansi.Strip(m.View()), "IDENTIFICATION DIVISION.") {
		t.Error("text not drawn for unknown language")
	}
}

func TestOverlayMatchesContent(t *testing.T) {
	m := New(nil)
	m.SetNote("n", "def f():\n\treturn 1\n", notes.Python)
	m.Focus()
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnd}, runes("  # done"))

	overlay := m.Overlay()
	if len(overlay) != m.LineCount() {
		t.Fatalf("overlay lines = %d, want %d", len(overlay), m.LineCount())
	}
	var rebuilt []string
	for _, line := range overlay {
		var b strings.Builder
		for _, sp := range line {
			b.WriteString(sp.Text)
		}
		rebuilt = append(rebuilt, b.String())
	}
	if got := strings.Join(rebuilt, "\n"); got != m.Value() {
		t.Errorf("overlay text %q, want %q", got, m.Value())
	}
}

func TestWhitespacePreserved(t *testing.T) {
	var got []string
	m := New(nil, WithOnChange(func(s string) error {
		got = append(got, s)
		return nil
	}))
	m.SetNote("n", "", notes.Plaintext)
	m.Focus()

	m, _ = press(m,
		runes("a"),
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyTab},
	)

	if m.Value() != "a\t \n\t" {
		t.Errorf("Value = %q, want %q", m.Value(), "a\t \n\t")
	}
	want := []string{"a", "a\t", "a\t ", "a\t \n", "a\t \n\t"}
	if len(got) != len(want) {
		t.Fatalf("callback fired %d times, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCursorMovesDoNotReportChanges(t *testing.T) {
	calls := 0
	m := New(nil, WithOnChange(func(string) error { calls++; return nil }))
	m.SetNote("n", "ab\ncd", notes.Plaintext)
	m.Focus()
	m, _ = press(m,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyLeft},
		tea.KeyMsg{Type: tea.KeyHome},
	)
	if calls != 0 {
		t.Errorf("cursor movement fired %d changes", calls)
	}
	if row, col := m.Cursor(); row != 1 || col != 0 {
		t.Errorf("cursor = %d,%d; want 1,0", row, col)
	}
}

func TestChangeError(t *testing.T) {
	boom := errors.New("disk full")
	m := New(nil, WithOnChange(func(string) error { return boom }))
	m.SetNote("n", "", notes.Plaintext)
	m.Focus()

	m, cmds := press(m, runes("x"))
	if m.Value() != "x" {
		t.Errorf("edit lost on callback error: %q", m.Value())
	}
	if len(cmds) != 1 {
		t.Fatalf("got %d cmds, want 1", len(cmds))
	}
	msg, ok := cmds[0]().(ChangeErrMsg)
	if !ok || !errors.Is(msg.Err, boom) {
		t.Errorf("cmd produced %#v, want ChangeErrMsg", msg)
	}
}

func TestBlurredIgnoresKeys(t *testing.T) {
	m := New(nil)
	m.SetNote("n", "keep", notes.Plaintext)
	m, _ = press(m, runes("x"))
	if m.Value() != "keep" {
		t.Errorf("blurred editor accepted input: %q", m.Value())
	}
}

func TestScrollLockstep_Vertical(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}
	m := New(nil)
	m.SetSize(40, 5)
	m.SetNote("n", strings.Join(lines, "\n"), notes.SQL)
	m.Focus()

	for i := 0; i < 12; i++ {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
		surface, overlay := m.ScrollOffsets()
		if surface != overlay {
			t.Fatalf("step %d: surface %+v, overlay %+v", i, surface, overlay)
		}
	}
	surface, _ := m.ScrollOffsets()
	if surface.Top != 8 {
		t.Errorf("Top = %d, want 8", surface.Top)
	}

	m, _ = press(m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	surface, overlay := m.ScrollOffsets()
	if surface != overlay || surface.Top != 5 {
		t.Errorf("after wheel: surface %+v, overlay %+v; want Top 5", surface, overlay)
	}

	m.ScrollBy(-100, 0)
	surface, overlay = m.ScrollOffsets()
	if surface.Top != 0 || overlay.Top != 0 {
		t.Errorf("scroll not clamped: %+v %+v", surface, overlay)
	}

	m.ScrollBy(1000, 0)
	surface, overlay = m.ScrollOffsets()
	if surface.Top != 25 || surface != overlay {
		t.Errorf("scroll past end: %+v %+v, want Top 25", surface, overlay)
	}
}

func TestScrollLockstep_Horizontal(t *testing.T) {
	m := New(nil, WithLineNumbers(false))
	m.SetSize(10, 3)
	m.SetNote("n", strings.Repeat("x", 50), notes.JavaScript)
	m.Focus()

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	surface, overlay := m.ScrollOffsets()
	if surface.Left != 41 {
		t.Errorf("Left = %d, want 41", surface.Left)
	}
	if surface != overlay {
		t.Errorf("surface %+v, overlay %+v", surface, overlay)
	}

	view := ansi.Strip(strings.Split(m.View(), "\n")[0])
	if ansi.StringWidth(view) != 10 {
		t.Errorf("row width = %d, want 10: %q", ansi.StringWidth(view), view)
	}
}

func TestTabsExpandOnlyOnScreen(t *testing.T) {
	m := New(nil, WithLineNumbers(false), WithTabWidth(4))
	m.SetSize(20, 1)
	m.SetNote("n", "\tx", notes.Plaintext)

	row := ansi.Strip(m.View())
	if !strings.HasPrefix(row, "    x") {
		t.Errorf("row = %q, want tab drawn as 4 spaces", row)
	}
	if m.Value() != "\tx" {
		t.Errorf("Value = %q, tab not preserved", m.Value())
	}
}

func TestSetNoteResets(t *testing.T) {
	m := New(nil)
	m.SetSize(40, 2)
	m.SetNote("a", "1\n2\n3\n4\n5", notes.Plaintext)
	m.Focus()
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlEnd})
	if s, _ := m.ScrollOffsets(); s.Top == 0 {
		t.Fatal("expected scroll before switch")
	}

	m.SetNote("b", "other", notes.Plaintext)
	if row, col := m.Cursor(); row != 0 || col != 0 {
		t.Errorf("cursor = %d,%d after switching notes", row, col)
	}
	if s, o := m.ScrollOffsets(); s != (Viewport{}) || o != (Viewport{}) {
		t.Errorf("scroll not reset: %+v %+v", s, o)
	}
	if m.NoteID() != "b" {
		t.Errorf("NoteID = %q", m.NoteID())
	}
}

func TestPlaceholder(t *testing.T) {
	m := New(nil, WithPlaceholder("Start writing your SQL code or notes..."))
	m.SetSize(60, 2)
	m.SetNote("n", "", notes.SQL)
	if !strings.Contains(ansi.Strip(m.View()), "Start writing your SQL code or notes...") {
		t.Errorf("placeholder missing:\n%s", m.View())
	}
	if m.Value() != "" {
		t.Errorf("placeholder leaked into value")
	}
}

func TestPasteNormalizesCarriageReturns(t *testing.T) {
	m := New(nil)
	m.SetNote("n", "", notes.Plaintext)
	m.Focus()
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\r\nb\rc"), Paste: true})
	if m.Value() != "a\nb\nc" {
		t.Errorf("Value = %q", m.Value())
	}
}
