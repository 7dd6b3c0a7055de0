package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the editor's key bindings.
type KeyMap struct {
	Left          key.Binding
	Right         key.Binding
	Up            key.Binding
	Down          key.Binding
	LineStart     key.Binding
	LineEnd       key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	DocStart      key.Binding
	DocEnd        key.Binding
	Backspace     key.Binding
	Delete        key.Binding
	DeleteToStart key.Binding
	Newline       key.Binding
	Tab           key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:          key.NewBinding(key.WithKeys("left", "ctrl+b")),
		Right:         key.NewBinding(key.WithKeys("right", "ctrl+f")),
		Up:            key.NewBinding(key.WithKeys("up")),
		Down:          key.NewBinding(key.WithKeys("down")),
		LineStart:     key.NewBinding(key.WithKeys("home", "ctrl+a")),
		LineEnd:       key.NewBinding(key.WithKeys("end")),
		PageUp:        key.NewBinding(key.WithKeys("pgup")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown")),
		DocStart:      key.NewBinding(key.WithKeys("ctrl+home")),
		DocEnd:        key.NewBinding(key.WithKeys("ctrl+end")),
		Backspace:     key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		Delete:        key.NewBinding(key.WithKeys("delete")),
		DeleteToStart: key.NewBinding(key.WithKeys("ctrl+u")),
		Newline:       key.NewBinding(key.WithKeys("enter")),
		Tab:           key.NewBinding(key.WithKeys("tab")),
	}
}
