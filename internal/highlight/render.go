package highlight

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/codenotes/internal/notes"
)

// Highlighter renders spans with a chroma style translated to lipgloss.
type Highlighter struct {
	style *chroma.Style

	mu    sync.Mutex
	cache map[chroma.TokenType]lipgloss.Style
}

// New returns a Highlighter for the named chroma style. Unknown names use
// chroma's fallback style.
func New(styleName string) *Highlighter {
	return &Highlighter{
		style: styles.Get(styleName),
		cache: make(map[chroma.TokenType]lipgloss.Style),
	}
}

// StyleName returns the resolved chroma style name.
func (h *Highlighter) StyleName() string {
	return h.style.Name
}

// Style returns the lipgloss style for a token kind.
func (h *Highlighter) Style(kind chroma.TokenType) lipgloss.Style {
	h.mu.Lock()
	defer h.mu.Unlock()
	if st, ok := h.cache[kind]; ok {
		return st
	}

	entry := h.style.Get(kind)
	st := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	h.cache[kind] = st
	return st
}

// RenderLine renders one line of spans, expanding tabs to tabWidth stops.
func (h *Highlighter) RenderLine(spans []Span, tabWidth int) string {
	var b strings.Builder
	col := 0
	for _, sp := range spans {
		var text string
		text, col = ExpandTabs(sp.Text, tabWidth, col)
		if text == "" {
			continue
		}
		if sp.Kind == chroma.Text || sp.Kind == chroma.TextWhitespace {
			b.WriteString(text)
			continue
		}
		b.WriteString(h.Style(sp.Kind).Render(text))
	}
	return b.String()
}

// Render highlights a whole document and returns it as styled lines joined by
// newlines. Languages without a lexer come back unstyled.
func (h *Highlighter) Render(text string, lang notes.Language, tabWidth int) string {
	spans, _ := Tokenize(text, lang)
	lines := SplitLines(spans)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = h.RenderLine(line, tabWidth)
	}
	return strings.Join(out, "\n")
}

// ExpandTabs replaces tabs with spaces up to the next multiple of tabWidth,
// starting at display column col. It returns the expanded text and the
// column after it. Only the display changes; callers keep the raw text.
func ExpandTabs(s string, tabWidth, col int) (string, int) {
	if tabWidth <= 0 {
		tabWidth = 1
	}
	if !strings.ContainsRune(s, '\t') {
		return s, col + runewidth.StringWidth(s)
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String(), col
}
