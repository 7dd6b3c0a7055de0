package app

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/codenotes/internal/notes"
	"github.com/marcus/codenotes/internal/transfer"
)

// Message types for tea.Cmd
type (
	// TickMsg is sent on each clock tick.
	TickMsg time.Time

	// SlotChangedMsg reports that storage was changed by another process.
	SlotChangedMsg struct{}

	// ExportDoneMsg reports the outcome of an export.
	ExportDoneMsg struct {
		Path  string
		Count int
		Err   error
	}

	// ImportDoneMsg reports the outcome of an import.
	ImportDoneMsg struct {
		Result transfer.Result
		Err    error // set when the patterns could not be resolved
	}
)

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForChange blocks until the watcher fires. A closed channel ends the loop.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return SlotChangedMsg{}
	}
}

// exportCmd writes the collection in format into dir.
func exportCmd(s *notes.Store, dir, format string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		if format == transfer.FormatMarkdown {
			out := filepath.Join(dir, strings.TrimSuffix(notes.ExportFilename(now), ".json"))
			n, err := transfer.ExportMarkdown(s.Notes(), out)
			return ExportDoneMsg{Path: out, Count: n, Err: err}
		}
		path, err := transfer.ExportJSON(s, dir, now)
		return ExportDoneMsg{Path: path, Count: s.Len(), Err: err}
	}
}

// importCmd resolves the space-separated paths or globs and imports every
// matched file as its own batch.
func importCmd(s *notes.Store, input string) tea.Cmd {
	patterns := strings.Fields(input)
	return func() tea.Msg {
		paths, err := transfer.Expand(patterns)
		if err != nil {
			return ImportDoneMsg{Err: err}
		}
		return ImportDoneMsg{Result: transfer.ImportFiles(s, paths)}
	}
}
