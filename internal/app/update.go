package app

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/codenotes/internal/editor"
	"github.com/marcus/codenotes/internal/msg"
	"github.com/marcus/codenotes/internal/notes"
	"github.com/marcus/codenotes/internal/state"
	"github.com/marcus/codenotes/internal/styles"
	"github.com/marcus/codenotes/internal/ui"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.MouseMsg:
		return m.handleMouse(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.layout()
		return m, nil

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.IsError)
		return m, nil

	case editor.ChangeErrMsg:
		m.toastErr("Save", message.Err)
		return m, nil

	case SlotChangedMsg:
		if err := m.store.Reload(); err != nil {
			m.logger.Warn("reload notes", "err", err)
			m.ShowToast("Reload failed: "+err.Error(), 5*time.Second, true)
		} else {
			m.loadSelected()
			m.refreshList()
			m.ShowToast("Notes changed on disk, reloaded", 0, false)
		}
		return m, waitForChange(m.changes)

	case ExportDoneMsg:
		if message.Err != nil {
			m.toastErr("Export", message.Err)
			return m, nil
		}
		m.ShowToast(fmt.Sprintf("Exported %d notes to %s", message.Count, message.Path), 3*time.Second, false)
		return m, nil

	case ImportDoneMsg:
		return m.handleImportDone(message)
	}

	return m, nil
}

func (m Model) handleImportDone(done ImportDoneMsg) (tea.Model, tea.Cmd) {
	m.refreshList()
	if done.Err != nil {
		m.ShowToast("Import failed: "+done.Err.Error(), 5*time.Second, true)
		return m, nil
	}

	res := done.Result
	failed := res.Failed()
	switch {
	case len(failed) == 0:
		m.ShowToast(fmt.Sprintf("Imported %d notes", res.Imported()), 3*time.Second, false)
	case len(res.Files) == 1:
		m.toastErr("Import", failed[0].Err)
	default:
		m.ShowToast(fmt.Sprintf("Imported %d notes, %d of %d files failed",
			res.Imported(), len(failed), len(res.Files)), 5*time.Second, true)
	}
	for _, f := range failed {
		m.logger.Warn("import file", "path", f.Path, "err", f.Err)
	}
	return m, nil
}

// handleKeyMsg routes keys to the open dialog or the focused component.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.confirm != nil {
		switch m.confirm.HandleKey(k) {
		case ui.DialogConfirmed:
			id := m.pendingDelete
			m.confirm, m.pendingDelete = nil, ""
			m.deleteNote(id)
		case ui.DialogCancelled:
			m.confirm, m.pendingDelete = nil, ""
		}
		return m, nil
	}

	if m.prompt != nil {
		res, cmd := m.prompt.Update(k)
		switch res {
		case ui.DialogConfirmed:
			input := m.prompt.Value()
			m.prompt = nil
			if err := state.SetLastImportPath(input); err != nil {
				m.logger.Warn("save ui state", "err", err)
			}
			return m, importCmd(m.store, input)
		case ui.DialogCancelled:
			m.prompt = nil
		}
		return m, cmd
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(k)
	case focusTitle:
		return m.handleTitleKey(k)
	case focusEditor:
		return m.handleEditorKey(k)
	}
	return m.handleSidebarKey(k)
}

// handleGlobalKey runs actions bound to non-letter keys. These work from the
// sidebar and from inside the editor.
func (m *Model) handleGlobalKey(k tea.KeyMsg) (tea.Cmd, bool) {
	if k.Type == tea.KeyRunes {
		return nil, false
	}
	switch {
	case key.Matches(k, m.keys.NewNote):
		m.newNote()
	case key.Matches(k, m.keys.Save):
		m.save()
	case key.Matches(k, m.keys.Export):
		return exportCmd(m.store, m.cfg.Export.Dir, m.cfg.Export.Format, m.now()), true
	case key.Matches(k, m.keys.Import):
		m.prompt = ui.NewPromptDialog("Import notes", "JSON files or glob patterns, space separated", state.GetLastImportPath())
	case key.Matches(k, m.keys.Yank):
		return m.yank(), true
	case key.Matches(k, m.keys.Preview):
		m.togglePreview()
	case key.Matches(k, m.keys.Theme):
		m.cycleTheme()
	case key.Matches(k, m.keys.EditTitle):
		if _, ok := m.store.Selected(); ok {
			m.setFocus(focusTitle)
		}
	case key.Matches(k, m.keys.CycleLanguage):
		m.cycleLanguage()
	default:
		return nil, false
	}
	return nil, true
}

func (m Model) handleSidebarKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleGlobalKey(k); ok {
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.NewNote):
		m.newNote()
	case key.Matches(k, m.keys.Delete):
		m.askDelete()
	case key.Matches(k, m.keys.Search):
		m.setFocus(focusSearch)
	case key.Matches(k, m.keys.EditTitle):
		if _, ok := m.store.Selected(); ok {
			m.setFocus(focusTitle)
		}
	case key.Matches(k, m.keys.Yank):
		return m, m.yank()
	case key.Matches(k, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(k, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(k, m.keys.FocusEditor):
		if _, ok := m.store.Selected(); ok {
			m.setFocus(focusEditor)
		}
	case key.Matches(k, m.keys.Blur):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refreshList()
		}
	case key.Matches(k, m.keys.Grow):
		m.resizeSidebar(2)
	case key.Matches(k, m.keys.Shrink):
		m.resizeSidebar(-2)
	}
	return m, nil
}

func (m Model) handleEditorKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(k, m.keys.Blur) {
		m.setFocus(focusSidebar)
		return m, nil
	}
	if cmd, ok := m.handleGlobalKey(k); ok {
		return m, cmd
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(k)
	if m.editor.Value() != before {
		m.refreshList()
	}
	return m, cmd
}

func (m Model) handleTitleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEnter:
		title := m.title.Value()
		m.setFocus(focusSidebar)
		if err := m.store.Update(notes.Patch{Title: &title}); err != nil {
			m.toastErr("Rename", err)
		}
		m.refreshList()
		return m, nil
	case tea.KeyEsc:
		m.setFocus(focusSidebar)
		if n, ok := m.store.Selected(); ok {
			m.title.SetValue(n.Title)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(k)
	return m, cmd
}

func (m Model) handleSearchKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEnter, tea.KeyDown:
		m.setFocus(focusSidebar)
		m.selectVisible(m.cursor)
		return m, nil
	case tea.KeyEsc:
		m.search.SetValue("")
		m.setFocus(focusSidebar)
		m.refreshList()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(k)
	m.refreshList()
	return m, cmd
}

func (m Model) handleMouse(mm tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil || m.prompt != nil {
		return m, nil
	}
	if mm.X < m.sidebarWidth {
		if mm.Action == tea.MouseActionPress {
			switch mm.Button {
			case tea.MouseButtonWheelUp:
				m.moveCursor(-1)
			case tea.MouseButtonWheelDown:
				m.moveCursor(1)
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(mm)
	return m, cmd
}

// moveCursor moves the sidebar cursor and selects the note under it.
func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.selectVisible(min(max(m.cursor+delta, 0), len(m.visible)-1))
}

func (m *Model) selectVisible(i int) {
	if i < 0 || i >= len(m.visible) {
		return
	}
	m.cursor = i
	if err := m.store.Select(m.visible[i].ID); err != nil {
		m.refreshList()
		return
	}
	m.loadSelected()
}

func (m *Model) resizeSidebar(delta int) {
	if err := state.SetSidebarWidth(m.sidebarWidth + delta); err != nil {
		m.logger.Warn("save ui state", "err", err)
	}
	m.sidebarWidth = state.GetSidebarWidth()
	m.layout()
}

func (m *Model) newNote() {
	_, err := m.store.Create()
	if err != nil {
		m.toastErr("Create", err)
	} else {
		m.ShowToast("Created note", 0, false)
	}
	m.search.SetValue("")
	m.loadSelected()
	m.refreshList()
	if _, ok := m.store.Selected(); ok {
		m.setFocus(focusEditor)
	}
}

func (m *Model) askDelete() {
	n, ok := m.store.Selected()
	if !ok {
		return
	}
	d := ui.NewConfirmDialog("Delete note?", fmt.Sprintf("Delete %q? This cannot be undone.", n.Title))
	d.ConfirmLabel = " Delete "
	d.Danger = true
	m.confirm = d
	m.pendingDelete = n.ID
}

func (m *Model) deleteNote(id string) {
	if err := m.store.Delete(id); err != nil {
		m.toastErr("Delete", err)
	} else {
		m.ShowToast("Deleted note", 0, false)
	}
	m.loadSelected()
	m.refreshList()
}

func (m *Model) save() {
	if err := m.store.Save(); err != nil {
		m.toastErr("Save", err)
		return
	}
	m.ShowToast("Saved", 0, false)
}

func (m *Model) yank() tea.Cmd {
	n, ok := m.store.Selected()
	if !ok {
		return nil
	}
	if n.Content == "" {
		return msg.ShowToast("No content to copy", 2*time.Second)
	}
	if err := clipboardWrite(n.Content); err != nil {
		return msg.ShowError("Copy failed: "+err.Error(), 2*time.Second)
	}
	return msg.ShowToast("Copied note content", 2*time.Second)
}

func (m *Model) togglePreview() {
	m.preview = !m.preview
	if err := state.SetMarkdownPreview(m.preview); err != nil {
		m.logger.Warn("save ui state", "err", err)
	}
}

func (m *Model) cycleLanguage() {
	n, ok := m.store.Selected()
	if !ok {
		return
	}
	next := n.Language.Next()
	if err := m.store.Update(notes.Patch{Language: &next}); err != nil {
		m.toastErr("Change language", err)
	}
	m.editor.SetLanguage(next)
	m.editor.SetPlaceholder(m.placeholder(next))
	m.refreshList()
	m.layout()
}

func (m *Model) cycleTheme() {
	name := styles.NextTheme()
	styles.ApplyTheme(name)
	m.cfg.UI.Theme = name
	m.editor.SetTheme(newHighlighter(m.cfg), editor.DefaultStyles())
	m.previewCache.id = ""
	if err := m.saveTheme(name); err != nil {
		m.logger.Warn("save theme", "theme", name, "err", err)
	}
	m.ShowToast("Theme: "+styles.GetTheme(name).DisplayName, 0, false)
}
