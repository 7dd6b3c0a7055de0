// Package app is the root Bubble Tea model: a note sidebar, the highlighted
// editor and the dialogs around them.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/codenotes/internal/config"
	"github.com/marcus/codenotes/internal/editor"
	"github.com/marcus/codenotes/internal/highlight"
	"github.com/marcus/codenotes/internal/msg"
	"github.com/marcus/codenotes/internal/notes"
	"github.com/marcus/codenotes/internal/state"
	"github.com/marcus/codenotes/internal/styles"
	"github.com/marcus/codenotes/internal/ui"
)

// focusArea is the component receiving keys.
type focusArea int

const (
	focusSidebar focusArea = iota
	focusEditor
	focusTitle
	focusSearch
)

// Options wires a Model to its collaborators.
type Options struct {
	Config  *config.Config
	Store   *notes.Store
	Logger  *slog.Logger
	Changes <-chan struct{} // external storage changes; nil disables reloads
	Version string

	// SaveTheme persists a theme choice. Defaults to config.SaveTheme.
	SaveTheme func(name string) error
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model for the notes application.
type Model struct {
	cfg       *config.Config
	store     *notes.Store
	logger    *slog.Logger
	changes   <-chan struct{}
	version   string
	saveTheme func(string) error
	now       func() time.Time

	keys   KeyMap
	editor editor.Model
	title  textinput.Model
	search textinput.Model
	focus  focusArea

	// Sidebar
	visible      []notes.Note
	cursor       int
	sidebarWidth int

	// Dialogs
	confirm       *ui.ConfirmDialog
	pendingDelete string
	prompt        *ui.PromptDialog

	preview      bool
	previewCache *markdownCache

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	width, height int
	ready         bool
}

// markdownCache holds the last glamour rendering; glamour is too slow to run
// on every frame.
type markdownCache struct {
	id      string
	content string
	width   int
	out     string
}

// New creates the application model and restores the last selection.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	saveTheme := opts.SaveTheme
	if saveTheme == nil {
		saveTheme = config.SaveTheme
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := opts.Store
	ed := editor.New(newHighlighter(cfg),
		editor.WithTabWidth(cfg.Editor.TabWidth),
		editor.WithLineNumbers(cfg.Editor.LineNumbers),
		editor.WithOnChange(func(content string) error {
			return store.Update(notes.Patch{Content: &content})
		}),
	)

	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = notes.DefaultTitle
	title.CharLimit = 200

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"

	m := Model{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		changes:      opts.Changes,
		version:      opts.Version,
		saveTheme:    saveTheme,
		now:          now,
		keys:         DefaultKeyMap(),
		editor:       ed,
		title:        title,
		search:       search,
		sidebarWidth: state.GetSidebarWidth(),
		preview:      state.GetMarkdownPreview(),
		previewCache: &markdownCache{},
	}

	if id := state.GetSelectedNoteID(); id != "" {
		if err := store.Select(id); err != nil {
			logger.Debug("saved selection not restored", "id", id, "err", err)
		}
	}
	m.loadSelected()
	m.refreshList()
	return m
}

func newHighlighter(cfg *config.Config) *highlight.Highlighter {
	if cfg.UI.SyntaxStyle != "" {
		return highlight.New(cfg.UI.SyntaxStyle)
	}
	return highlight.New(styles.GetSyntaxTheme())
}

// Init starts the clock and the storage watcher, and reports a failed load.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if cmd := waitForChange(m.changes); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if err := m.store.LoadErr(); err != nil {
		cmds = append(cmds, msg.ShowError("Could not read saved notes: "+err.Error(), 5*time.Second))
	}
	return tea.Batch(cmds...)
}

// placeholder is the editor hint for lang.
func (m Model) placeholder(lang notes.Language) string {
	if m.cfg.Editor.Placeholder != "" {
		return m.cfg.Editor.Placeholder
	}
	return fmt.Sprintf("Start writing your %s code or notes...", lang.Label())
}

// loadSelected pushes the store's selected note into the editor and title.
func (m *Model) loadSelected() {
	n, ok := m.store.Selected()
	if !ok {
		m.editor.SetNote("", "", notes.Plaintext)
		m.title.SetValue("")
		if m.focus == focusEditor || m.focus == focusTitle {
			m.setFocus(focusSidebar)
		}
		return
	}
	m.editor.SetNote(n.ID, n.Content, n.Language)
	m.editor.SetPlaceholder(m.placeholder(n.Language))
	if m.focus != focusTitle {
		m.title.SetValue(n.Title)
	}
	if err := state.SetSelectedNoteID(n.ID); err != nil {
		m.logger.Warn("save ui state", "err", err)
	}
}

// refreshList re-runs the search and keeps the cursor on the selected note.
func (m *Model) refreshList() {
	m.visible = m.store.Search(m.search.Value())
	sel := m.store.SelectedID()
	for i, n := range m.visible {
		if n.ID == sel {
			m.cursor = i
			return
		}
	}
	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.editor.Blur()
	m.title.Blur()
	m.search.Blur()
	switch f {
	case focusEditor:
		m.editor.Focus()
	case focusTitle:
		m.title.Focus()
		m.title.CursorEnd()
	case focusSearch:
		m.search.Focus()
	}
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(text string, duration time.Duration, isError bool) {
	if duration <= 0 {
		duration = m.cfg.UI.ToastDuration
	}
	m.statusMsg = text
	m.statusExpiry = m.now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && m.now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// toastErr shows err, naming write failures as such.
func (m *Model) toastErr(action string, err error) {
	if notes.IsWriteError(err) {
		m.logger.Error("persist notes", "action", action, "err", err)
		m.ShowToast("Not saved: "+err.Error(), 5*time.Second, true)
		return
	}
	m.ShowToast(action+" failed: "+err.Error(), 5*time.Second, true)
}
