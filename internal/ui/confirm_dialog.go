package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/codenotes/internal/styles"
)

// Dialog widths.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 70
)

// DialogResult is what a key did to a dialog.
type DialogResult int

const (
	DialogPending DialogResult = iota
	DialogConfirmed
	DialogCancelled
)

// ConfirmDialog is a yes/no dialog with two focusable buttons.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string // e.g., " Delete "
	CancelLabel  string // e.g., " Cancel "
	Danger       bool   // red confirm button
	Width        int

	confirmFocused bool
}

// NewConfirmDialog creates a dialog with the confirm button focused.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:          title,
		Message:        message,
		ConfirmLabel:   " Confirm ",
		CancelLabel:    " Cancel ",
		Width:          ModalWidthMedium,
		confirmFocused: true,
	}
}

// HandleKey moves focus or resolves the dialog.
func (d *ConfirmDialog) HandleKey(msg tea.KeyMsg) DialogResult {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		d.confirmFocused = !d.confirmFocused
	case "enter":
		if d.confirmFocused {
			return DialogConfirmed
		}
		return DialogCancelled
	case "y", "Y":
		return DialogConfirmed
	case "n", "N", "esc", "q":
		return DialogCancelled
	}
	return DialogPending
}

// View renders the dialog box.
func (d *ConfirmDialog) View() string {
	inner := d.Width - 6 // border and padding

	confirm, cancel := styles.Button, styles.Button
	if d.Danger {
		confirm = styles.ButtonDanger
	}
	if d.confirmFocused {
		if d.Danger {
			confirm = styles.ButtonDangerFocused
		} else {
			confirm = styles.ButtonFocused
		}
	} else {
		cancel = styles.ButtonFocused
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Render(d.Message))
	b.WriteString("\n\n")
	b.WriteString(confirm.Render(d.ConfirmLabel) + "  " + cancel.Render(d.CancelLabel))

	box := styles.ModalBox.Width(d.Width - 2)
	if d.Danger {
		box = box.BorderForeground(styles.Error)
	}
	return box.Render(b.String())
}
