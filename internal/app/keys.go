package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds app-level bindings. Bindings with a ctrl variant also work
// while the editor has focus; plain letters only work in the sidebar.
type KeyMap struct {
	Quit          key.Binding
	NewNote       key.Binding
	Delete        key.Binding
	Save          key.Binding
	Export        key.Binding
	Import        key.Binding
	Yank          key.Binding
	Preview       key.Binding
	Theme         key.Binding
	Search        key.Binding
	EditTitle     key.Binding
	CycleLanguage key.Binding
	FocusEditor   key.Binding
	Blur          key.Binding
	Up            key.Binding
	Down          key.Binding
	Grow          key.Binding
	Shrink        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NewNote:       key.NewBinding(key.WithKeys("n", "ctrl+n"), key.WithHelp("n", "new")),
		Delete:        key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "save")),
		Export:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^e", "export")),
		Import:        key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "import")),
		Yank:          key.NewBinding(key.WithKeys("y", "ctrl+y"), key.WithHelp("y", "copy")),
		Preview:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("^p", "preview")),
		Theme:         key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("^g", "theme")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		EditTitle:     key.NewBinding(key.WithKeys("t", "ctrl+t"), key.WithHelp("t", "title")),
		CycleLanguage: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^l", "language")),
		FocusEditor:   key.NewBinding(key.WithKeys("enter", "tab", "i"), key.WithHelp("enter", "edit")),
		Blur:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:            key.NewBinding(key.WithKeys("up", "k")),
		Down:          key.NewBinding(key.WithKeys("down", "j")),
		Grow:          key.NewBinding(key.WithKeys(">")),
		Shrink:        key.NewBinding(key.WithKeys("<")),
	}
}

func (k KeyMap) sidebarHints() []key.Binding {
	return []key.Binding{k.NewNote, k.FocusEditor, k.Search, k.EditTitle, k.Delete, k.CycleLanguage, k.Export, k.Import, k.Yank, k.Quit}
}

func (k KeyMap) editorHints() []key.Binding {
	return []key.Binding{k.Blur, k.Save, k.CycleLanguage, k.Preview, k.EditTitle, k.NewNote}
}
