package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/codenotes/internal/transfer"
	"github.com/marcus/codenotes/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <path-or-glob>...",
	Short: "Import notes",
	Long: `Import notes from JSON export files. Arguments may be glob patterns,
including ** for recursive matches. Each file is imported as its own batch;
a malformed file is skipped without touching the existing notes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := transfer.Expand(args)
		if err != nil {
			return err
		}

		res := transfer.ImportFiles(store, paths)
		for _, f := range res.Files {
			if f.Err != nil {
				fmt.Println(ui.Error(fmt.Sprintf("%s: %v", f.Path, f.Err)))
				continue
			}
			if f.Count == 0 {
				fmt.Println(ui.Warn(fmt.Sprintf("%s: no notes in file", f.Path)))
				continue
			}
			fmt.Println(ui.Success(fmt.Sprintf("%s: %d notes", f.Path, f.Count)))
		}

		if failed := res.Failed(); len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed to import", len(failed), len(res.Files))
		}
		fmt.Println(ui.Success(fmt.Sprintf("Imported %d notes", res.Imported())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
