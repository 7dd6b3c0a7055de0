// Package editor implements the highlighted note editor: an editable text
// surface, a read-only syntax-highlighted overlay kept in lockstep with it,
// and a line-number gutter.
package editor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"

	"github.com/marcus/codenotes/internal/highlight"
	"github.com/marcus/codenotes/internal/notes"
)

const defaultPlaceholder = "Start writing your code..."

// ChangeFunc receives the full content after every content-changing edit.
type ChangeFunc func(content string) error

// ChangeErrMsg carries an error returned by the ChangeFunc.
type ChangeErrMsg struct {
	Err error
}

// Viewport is a scroll offset in lines and display columns.
type Viewport struct {
	Top  int
	Left int
}

// Model is the editor component.
type Model struct {
	buf    buffer
	noteID string
	lang   notes.Language

	hl       *highlight.Highlighter
	overlay  [][]highlight.Span // nil when drawing plain text
	rendered []string           // overlay lines rendered with styles

	onChange    ChangeFunc
	placeholder string
	tabWidth    int
	lineNumbers bool
	keys        KeyMap
	styles      Styles

	width   int
	height  int
	focused bool

	surface     Viewport
	overlayView Viewport
}

// Option configures a Model.
type Option func(*Model)

// WithOnChange sets the content-change callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(m *Model) { m.onChange = fn }
}

// WithPlaceholder sets the text shown while the content is empty.
func WithPlaceholder(s string) Option {
	return func(m *Model) { m.placeholder = s }
}

// WithTabWidth sets the display width of a tab stop.
func WithTabWidth(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.tabWidth = n
		}
	}
}

// WithLineNumbers toggles the gutter.
func WithLineNumbers(on bool) Option {
	return func(m *Model) { m.lineNumbers = on }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(km KeyMap) Option {
	return func(m *Model) { m.keys = km }
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New creates an empty plain-text editor.
func New(hl *highlight.Highlighter, opts ...Option) Model {
	if hl == nil {
		hl = highlight.New("monokai")
	}
	m := Model{
		buf:         newBuffer(""),
		lang:        notes.Plaintext,
		hl:          hl,
		placeholder: defaultPlaceholder,
		tabWidth:    2,
		lineNumbers: true,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		width:       80,
		height:      24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// SetNote loads a note. Switching to a different note or language resets the
// cursor, scroll and overlay; the same note with new content keeps the cursor.
// Content is expected to be valid UTF-8, which the store guarantees; invalid
// bytes would be shown and saved back as U+FFFD.
func (m *Model) SetNote(id, content string, lang notes.Language) {
	if id != m.noteID || lang != m.lang {
		m.noteID = id
		m.lang = lang
		m.buf = newBuffer(content)
		m.setScroll(Viewport{})
		m.rehighlight()
		return
	}
	if content != m.buf.String() {
		row, col := m.buf.row, m.buf.col
		m.buf = newBuffer(content)
		m.buf.row, m.buf.col = row, col
		m.buf.clamp()
		m.rehighlight()
		m.followCursor()
	}
}

// SetLanguage switches the highlight language and regenerates the overlay.
func (m *Model) SetLanguage(lang notes.Language) {
	if lang == m.lang {
		return
	}
	m.lang = lang
	m.rehighlight()
}

// SetTheme swaps the highlighter and styles and re-renders the overlay.
func (m *Model) SetTheme(hl *highlight.Highlighter, s Styles) {
	if hl != nil {
		m.hl = hl
	}
	m.styles = s
	m.rehighlight()
}

// SetPlaceholder sets the empty-content hint.
func (m *Model) SetPlaceholder(s string) { m.placeholder = s }

// SetSize sets the outer size, gutter included.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
	m.followCursor()
}

// Focus enables editing keys.
func (m *Model) Focus() { m.focused = true }

// Blur disables editing keys.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the editor takes keys.
func (m Model) Focused() bool { return m.focused }

// Value returns the content exactly as typed.
func (m Model) Value() string { return m.buf.String() }

// NoteID returns the id of the loaded note.
func (m Model) NoteID() string { return m.noteID }

// Language returns the current language tag.
func (m Model) Language() notes.Language { return m.lang }

// LineCount returns the number of gutter lines: newlines plus one.
func (m Model) LineCount() int { return m.buf.lineCount() }

// Cursor returns the cursor position as line and rune index.
func (m Model) Cursor() (row, col int) { return m.buf.row, m.buf.col }

// Highlighted reports whether an overlay is drawn.
func (m Model) Highlighted() bool { return m.overlay != nil }

// Overlay returns the highlighted spans per line, or nil when the text is
// drawn plain (plaintext or an unsupported language).
func (m Model) Overlay() [][]highlight.Span { return m.overlay }

// ScrollOffsets returns the surface and overlay scroll offsets.
func (m Model) ScrollOffsets() (surface, overlay Viewport) {
	return m.surface, m.overlayView
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles keys and mouse wheel scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	changed := false
	b := &m.buf

	switch {
	case key.Matches(msg, m.keys.Left):
		b.left()
	case key.Matches(msg, m.keys.Right):
		b.right()
	case key.Matches(msg, m.keys.Up):
		b.up(1)
	case key.Matches(msg, m.keys.Down):
		b.down(1)
	case key.Matches(msg, m.keys.LineStart):
		b.home()
	case key.Matches(msg, m.keys.LineEnd):
		b.end()
	case key.Matches(msg, m.keys.PageUp):
		b.up(m.height)
	case key.Matches(msg, m.keys.PageDown):
		b.down(m.height)
	case key.Matches(msg, m.keys.DocStart):
		b.top()
	case key.Matches(msg, m.keys.DocEnd):
		b.bottom()
	case key.Matches(msg, m.keys.Backspace):
		changed = b.backspace()
	case key.Matches(msg, m.keys.Delete):
		changed = b.deleteForward()
	case key.Matches(msg, m.keys.DeleteToStart):
		changed = b.deleteToLineStart()
	case key.Matches(msg, m.keys.Newline):
		changed = b.insert([]rune{'\n'})
	case key.Matches(msg, m.keys.Tab):
		changed = b.insert([]rune{'\t'})
	case msg.Type == tea.KeySpace:
		changed = b.insert([]rune{' '})
	case msg.Type == tea.KeyRunes:
		rs := msg.Runes
		if msg.Paste {
			rs = normalizePaste(rs)
		}
		changed = b.insert(rs)
	}

	m.followCursor()
	if !changed {
		return m, nil
	}
	return m, m.contentChanged()
}

// normalizePaste turns terminal carriage returns into newlines. CRLF pairs
// become a single newline.
func normalizePaste(rs []rune) []rune {
	out := make([]rune, 0, len(rs))
	for i, r := range rs {
		if r == '\r' {
			if i+1 < len(rs) && rs[i+1] == '\n' {
				continue
			}
			r = '\n'
		}
		out = append(out, r)
	}
	return out
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action != tea.MouseActionPress {
		return m
	}
	vp := m.surface
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		vp.Top -= 3
	case tea.MouseButtonWheelDown:
		vp.Top += 3
	case tea.MouseButtonWheelLeft:
		vp.Left -= 4
	case tea.MouseButtonWheelRight:
		vp.Left += 4
	default:
		return m
	}
	m.setScroll(vp)
	return m
}

// ScrollBy moves the viewport without moving the cursor.
func (m *Model) ScrollBy(lines, cols int) {
	m.setScroll(Viewport{Top: m.surface.Top + lines, Left: m.surface.Left + cols})
}

// contentChanged regenerates the overlay and reports the new content.
func (m *Model) contentChanged() tea.Cmd {
	m.rehighlight()
	if m.onChange == nil {
		return nil
	}
	if err := m.onChange(m.buf.String()); err != nil {
		return func() tea.Msg { return ChangeErrMsg{Err: err} }
	}
	return nil
}

// rehighlight rebuilds the whole overlay from the current content.
func (m *Model) rehighlight() {
	m.overlay, m.rendered = nil, nil
	if !m.lang.Highlighted() {
		return
	}
	spans, ok := highlight.Tokenize(m.buf.String(), m.lang)
	if !ok {
		return
	}
	m.overlay = highlight.SplitLines(spans)
	m.rendered = make([]string, len(m.overlay))
	for i, line := range m.overlay {
		m.rendered[i] = m.hl.RenderLine(line, m.tabWidth)
	}
}

// setScroll is the only place scroll offsets change. The overlay always
// receives the surface offset in the same step.
func (m *Model) setScroll(vp Viewport) {
	maxTop := max(m.buf.lineCount()-m.textHeight(), 0)
	vp.Top = min(max(vp.Top, 0), maxTop)
	maxLeft := max(m.maxLineWidth()-m.textWidth()+1, 0)
	vp.Left = min(max(vp.Left, 0), maxLeft)
	m.surface = vp
	m.overlayView = vp
}

// followCursor scrolls just enough to keep the cursor visible.
func (m *Model) followCursor() {
	vp := m.surface
	h, w := m.textHeight(), m.textWidth()
	if m.buf.row < vp.Top {
		vp.Top = m.buf.row
	} else if m.buf.row >= vp.Top+h {
		vp.Top = m.buf.row - h + 1
	}
	cx := m.cursorColumn()
	if cx < vp.Left {
		vp.Left = cx
	} else if cx >= vp.Left+w {
		vp.Left = cx - w + 1
	}
	m.setScroll(vp)
}

func (m Model) textHeight() int { return max(m.height, 1) }

func (m Model) textWidth() int {
	return max(m.width-m.gutterWidth(), 1)
}

// cursorColumn is the display column of the cursor with tabs expanded.
func (m Model) cursorColumn() int {
	line := m.buf.lines[m.buf.row]
	_, col := highlight.ExpandTabs(string(line[:m.buf.col]), m.tabWidth, 0)
	return col
}

func (m Model) maxLineWidth() int {
	widest := 0
	for _, l := range m.buf.lines {
		_, w := highlight.ExpandTabs(string(l), m.tabWidth, 0)
		widest = max(widest, w)
	}
	return widest
}
