package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marcus/codenotes/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long:  `List notes newest first, optionally filtered by a search query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		limit, _ := cmd.Flags().GetInt("limit")

		found := store.Search(query)
		if len(found) == 0 {
			if store.Len() == 0 {
				fmt.Println(color.New(color.Faint).Sprint("No notes yet."))
			} else {
				fmt.Println(color.New(color.Faint).Sprint("No notes found."))
			}
			return nil
		}

		shown := found
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		for _, n := range shown {
			fmt.Print(ui.FormatNoteListItem(n))
		}
		if rest := len(found) - len(shown); rest > 0 {
			fmt.Println(color.New(color.Faint).Sprintf("\n... and %d more", rest))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("query", "s", "", "search query")
	listCmd.Flags().IntP("limit", "n", 20, "number of results")
	rootCmd.AddCommand(listCmd)
}
