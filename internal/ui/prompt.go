package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/codenotes/internal/styles"
)

// PromptDialog asks for a single line of text.
type PromptDialog struct {
	Title string
	Hint  string
	Width int

	input textinput.Model
}

// NewPromptDialog creates a focused prompt prefilled with value.
func NewPromptDialog(title, hint, value string) *PromptDialog {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return &PromptDialog{
		Title: title,
		Hint:  hint,
		Width: ModalWidthLarge,
		input: ti,
	}
}

// Value returns the trimmed input.
func (p *PromptDialog) Value() string {
	return strings.TrimSpace(p.input.Value())
}

// Update feeds a message to the input. Enter confirms, esc cancels.
func (p *PromptDialog) Update(msg tea.Msg) (DialogResult, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			if p.Value() == "" {
				return DialogPending, nil
			}
			return DialogConfirmed, nil
		case "esc":
			return DialogCancelled, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return DialogPending, cmd
}

// View renders the prompt box.
func (p *PromptDialog) View() string {
	p.input.Width = p.Width - 10
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	if p.Hint != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render(p.Hint))
	}
	return styles.ModalBox.Width(p.Width - 2).Render(b.String())
}
