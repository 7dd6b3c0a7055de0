package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/codenotes/internal/notes"
	"github.com/marcus/codenotes/internal/styles"
	"github.com/marcus/codenotes/internal/ui"
)

const (
	headerHeight = 1
	footerHeight = 1
	minWidth     = 60
	minHeight    = 12

	panelChrome = 4 // border plus horizontal padding
	paneHeader  = 2 // title line and rule above the editor
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		text := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render(text))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	h := m.contentHeight()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(m.sidebarWidth, h),
		m.renderEditorPane(m.width-m.sidebarWidth, h),
	))

	if m.cfg.UI.ShowFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	switch {
	case m.confirm != nil:
		return ui.Overlay(bg, m.confirm.View(), m.width, m.height)
	case m.prompt != nil:
		return ui.Overlay(bg, m.prompt.View(), m.width, m.height)
	}
	return bg
}

func (m Model) contentHeight() int {
	h := m.height - headerHeight
	if m.cfg.UI.ShowFooter {
		h -= footerHeight
	}
	return max(h, 3)
}

// editorSize is the area inside the editor panel below the title line.
func (m Model) editorSize() (int, int) {
	w := m.width - m.sidebarWidth - panelChrome
	h := m.contentHeight() - 2 - paneHeader
	return max(w, 1), max(h, 1)
}

// layout sizes the editor and title input to the pane they are drawn in.
func (m *Model) layout() {
	w, h := m.editorSize()
	m.editor.SetSize(w, h)
	m.title.Width = max(w-lipgloss.Width(m.languageChip())-2, 10)
}

func panel(active bool, width, height int) lipgloss.Style {
	s := styles.PanelInactive
	if active {
		s = styles.PanelActive
	}
	return s.Width(width - 2).Height(height - 2).MaxHeight(height)
}

func (m Model) renderHeader() string {
	left := styles.Logo.Render(" codenotes ")
	count := fmt.Sprintf("%d notes", m.store.Len())
	if m.store.Len() == 1 {
		count = "1 note"
	}
	left += " " + styles.Muted.Render(count)

	right := ""
	if m.version != "" {
		right = styles.Subtle.Render(m.version)
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSidebar(width, height int) string {
	inner := width - panelChrome
	lines := []string{m.renderSearchLine(inner), ""}
	avail := height - 2 - len(lines)

	if len(m.visible) == 0 {
		if m.store.Len() == 0 {
			lines = append(lines, styles.Muted.Render("No notes yet"), styles.Subtle.Render("press n to create one"))
		} else {
			lines = append(lines, styles.Muted.Render("No notes found"))
		}
	} else {
		perPage := max(avail/2, 1)
		start := 0
		if m.cursor >= perPage {
			start = m.cursor - perPage + 1
		}
		end := min(start+perPage, len(m.visible))
		now := m.now()
		for i := start; i < end; i++ {
			n := m.visible[i]
			selected := i == m.cursor
			lines = append(lines, m.renderListTitle(n, selected, inner))
			meta := n.Language.Label() + " · " + ui.RelativeTime(n.UpdatedAt, now)
			lines = append(lines, "  "+styles.Muted.Render(ansi.Truncate(meta, inner-2, "…")))
		}
	}

	active := m.focus == focusSidebar || m.focus == focusSearch
	return panel(active, width, height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderSearchLine(width int) string {
	if m.focus == focusSearch || m.search.Value() != "" {
		m.search.Width = max(width-3, 1)
		return m.search.View()
	}
	return styles.Subtle.Render("/ search")
}

func (m Model) renderListTitle(n notes.Note, selected bool, width int) string {
	title := n.Title
	if title == "" {
		title = notes.DefaultTitle
	}
	title = ansi.Truncate(title, width-2, "…")
	if selected {
		return styles.ListCursor.Render("▸ ") + styles.ListItemSelected.Width(width-2).Render(title)
	}
	return "  " + styles.ListItemNormal.Render(title)
}

func (m Model) languageChip() string {
	n, ok := m.store.Selected()
	if !ok {
		return ""
	}
	return styles.BarChipActive.Render(n.Language.Label())
}

func (m Model) renderEditorPane(width, height int) string {
	inner := width - panelChrome
	active := m.focus == focusEditor || m.focus == focusTitle
	box := panel(active, width, height)

	n, ok := m.store.Selected()
	if !ok {
		return box.Render(m.renderWelcome(inner, height-2))
	}

	var title string
	if m.focus == focusTitle {
		title = m.title.View()
	} else {
		title = styles.Title.Render(ansi.Truncate(n.Title, max(inner-lipgloss.Width(m.languageChip())-1, 1), "…"))
	}
	chip := m.languageChip()
	gap := max(inner-lipgloss.Width(title)-lipgloss.Width(chip), 1)

	var b strings.Builder
	b.WriteString(title + strings.Repeat(" ", gap) + chip)
	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render(strings.Repeat("─", max(inner, 0))))
	b.WriteString("\n")

	if m.showPreview(n) {
		_, h := m.editorSize()
		b.WriteString(m.renderPreview(n, inner, h))
	} else {
		b.WriteString(m.editor.View())
	}
	return box.Render(b.String())
}

func (m Model) showPreview(n notes.Note) bool {
	return m.preview && n.Language == notes.Markdown && m.focus != focusEditor
}

func (m Model) renderPreview(n notes.Note, width, height int) string {
	c := m.previewCache
	if c.id != n.ID || c.content != n.Content || c.width != width {
		c.id, c.content, c.width = n.ID, n.Content, width
		c.out = strings.Trim(ui.FormatMarkdown(n.Content, styles.GetMarkdownTheme(), width), "\n")
	}
	lines := strings.Split(c.out, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderWelcome(width, height int) string {
	body := strings.Join([]string{
		styles.Logo.Render("codenotes"),
		"",
		styles.Muted.Render("No note selected"),
		"",
		styles.KeyHint.Render("n") + " " + styles.Muted.Render("new note") + "   " +
			styles.KeyHint.Render("^o") + " " + styles.Muted.Render("import"),
	}, "\n")
	return lipgloss.Place(max(width, 1), max(height, 1), lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style := styles.ToastSuccess
		if m.statusIsError {
			style = styles.ToastError
		}
		return ansi.Truncate(style.Render(m.statusMsg), m.width, "…")
	}

	var hints []key.Binding
	switch m.focus {
	case focusEditor:
		hints = m.keys.editorHints()
	case focusTitle:
		hints = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "rename")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	case focusSearch:
		hints = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	default:
		hints = m.keys.sidebarHints()
	}
	return renderHintLine(hints, m.width)
}

// renderHintLine joins key hints, dropping those that do not fit.
func renderHintLine(hints []key.Binding, width int) string {
	var parts []string
	used := 0
	for _, h := range hints {
		help := h.Help()
		part := styles.KeyHint.Render(help.Key) + " " + styles.Muted.Render(help.Desc)
		w := lipgloss.Width(part) + 2
		if used+w > width {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, "  ")
}
