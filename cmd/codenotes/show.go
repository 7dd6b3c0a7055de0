package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/codenotes/internal/highlight"
	"github.com/marcus/codenotes/internal/notes"
	"github.com/marcus/codenotes/internal/styles"
	"github.com/marcus/codenotes/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a note",
	Long:  `Display a note's content with syntax highlighting, or rendered markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		note, err := noteByPrefix(args[0])
		if err != nil {
			return err
		}

		if raw {
			fmt.Print(note.Content)
			return nil
		}

		fmt.Print(ui.FormatNoteHeader(note))
		switch {
		case note.Language == notes.Markdown:
			fmt.Print(ui.FormatMarkdown(note.Content, styles.GetMarkdownTheme(), 80))
		default:
			style := cfg.UI.SyntaxStyle
			if style == "" {
				style = styles.GetSyntaxTheme()
			}
			fmt.Println(highlight.New(style).Render(note.Content, note.Language, cfg.Editor.TabWidth))
		}
		return nil
	},
}

// noteByPrefix finds the single note whose id starts with prefix.
func noteByPrefix(prefix string) (notes.Note, error) {
	var matches []notes.Note
	for _, n := range store.Notes() {
		if strings.HasPrefix(n.ID, prefix) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return notes.Note{}, fmt.Errorf("no note matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return notes.Note{}, fmt.Errorf("%q matches %d notes, use a longer prefix", prefix, len(matches))
	}
}

func init() {
	showCmd.Flags().Bool("raw", false, "print content without formatting")
	rootCmd.AddCommand(showCmd)
}
