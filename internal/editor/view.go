package editor

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/codenotes/internal/highlight"
	"github.com/marcus/codenotes/internal/styles"
)

// Styles holds the editor's lipgloss styles.
type Styles struct {
	Gutter        lipgloss.Style
	GutterCurrent lipgloss.Style
	Cursor        lipgloss.Style
	Placeholder   lipgloss.Style
}

// DefaultStyles derives editor styles from the active theme.
func DefaultStyles() Styles {
	return Styles{
		Gutter:        lipgloss.NewStyle().Foreground(styles.TextSubtle),
		GutterCurrent: lipgloss.NewStyle().Foreground(styles.TextSecondary),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Placeholder:   styles.Muted,
	}
}

// gutterWidth is the width of the line-number column including its separator.
func (m Model) gutterWidth() int {
	if !m.lineNumbers {
		return 0
	}
	digits := len(strconv.Itoa(m.buf.lineCount()))
	return max(digits, 3) + 1
}

// GutterLabels returns the label of every gutter line, starting at 1.
func (m Model) GutterLabels() []string {
	labels := make([]string, m.buf.lineCount())
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// View renders the visible window: gutter, then either the highlighted
// overlay or the raw text, cut to the shared scroll offset.
func (m Model) View() string {
	h, w := m.textHeight(), m.textWidth()
	gw := m.gutterWidth()
	rows := make([]string, 0, h)

	for y := 0; y < h; y++ {
		row := m.overlayView.Top + y
		var b strings.Builder

		if gw > 0 {
			b.WriteString(m.renderGutter(row, gw))
		}
		if row < m.buf.lineCount() {
			b.WriteString(m.renderLine(row, w))
		} else {
			b.WriteString(strings.Repeat(" ", w))
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderGutter(row, gw int) string {
	if row >= m.buf.lineCount() {
		return strings.Repeat(" ", gw)
	}
	label := strconv.Itoa(row + 1)
	label = strings.Repeat(" ", gw-1-len(label)) + label + " "
	if row == m.buf.row {
		return m.styles.GutterCurrent.Render(label)
	}
	return m.styles.Gutter.Render(label)
}

// lineText returns the full styled (or plain) display text of a line.
func (m Model) lineText(row int) string {
	if m.overlay != nil && row < len(m.rendered) {
		return m.rendered[row]
	}
	text, _ := highlight.ExpandTabs(string(m.buf.lines[row]), m.tabWidth, 0)
	return text
}

func (m Model) renderLine(row, w int) string {
	left := m.overlayView.Left

	if m.buf.empty() && row == 0 && m.placeholder != "" {
		ph := ansi.Truncate(m.placeholder, w, "")
		if m.focused && len(ph) > 0 {
			first, rest := ansi.Cut(ph, 0, 1), ansi.Cut(ph, 1, w)
			return pad(m.styles.Cursor.Render(first)+m.styles.Placeholder.Render(rest), w)
		}
		return pad(m.styles.Placeholder.Render(ph), w)
	}

	text := m.lineText(row)
	if !m.focused || row != m.buf.row {
		return pad(ansi.Cut(text, left, left+w), w)
	}

	cx := m.cursorColumn()
	prefix := ansi.Cut(text, left, cx)
	cell := ansi.Strip(ansi.Cut(text, cx, cx+1))
	if cell == "" {
		cell = " "
	}
	suffix := ansi.Cut(text, cx+1, left+w)
	return pad(prefix+m.styles.Cursor.Render(cell)+suffix, w)
}

// pad right-fills s with spaces to width w.
func pad(s string, w int) string {
	if n := w - ansi.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
