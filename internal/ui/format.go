package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/marcus/codenotes/internal/notes"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

// ShortID is the id prefix shown in listings. Generated ids are short
// enough to print whole; only long imported ids are cut.
func ShortID(id string) string {
	const n = 16
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// FormatNoteListItem renders one note for `list`.
func FormatNoteListItem(n notes.Note) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s  %s %s\n", faint(ShortID(n.ID)), bold(n.Title), cyan("["+n.Language.Label()+"]")))
	sb.WriteString(fmt.Sprintf("                %s %s\n",
		faint("Updated:"),
		faint(n.UpdatedAt.Local().Format("2006-01-02 15:04"))))
	return sb.String()
}

// FormatNoteHeader renders the metadata block printed above a note by `show`.
func FormatNoteHeader(n notes.Note) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n", bold(n.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(n.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Language:"), cyan(n.Language.Label())))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(n.CreatedAt.Local().Format("2006-01-02 15:04"))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(n.UpdatedAt.Local().Format("2006-01-02 15:04"))))
	sb.WriteString(Separator())
	return sb.String()
}

// FormatMarkdown renders markdown with glamour, falling back to the raw text.
func FormatMarkdown(content, style string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(max(width, 20))}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// RelativeTime formats t relative to now for the sidebar.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Local().Format("Jan 2, 2006")
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Warn(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
