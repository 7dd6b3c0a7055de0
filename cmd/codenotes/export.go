package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/codenotes/internal/notes"
	"github.com/marcus/codenotes/internal/transfer"
	"github.com/marcus/codenotes/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes",
	Long: `Export notes to a JSON array (importable again) or to a directory of
markdown files with YAML front matter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if format == "" {
			format = cfg.Export.Format
		}
		now := time.Now()

		switch format {
		case transfer.FormatJSON:
			return exportJSON(output, now)
		case transfer.FormatMarkdown:
			if output == "" {
				output = filepath.Join(cfg.Export.Dir, strings.TrimSuffix(notes.ExportFilename(now), ".json"))
			}
			n, err := transfer.ExportMarkdown(store.Notes(), output)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Exported %d notes to %s", n, output)))
			return nil
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

func exportJSON(output string, now time.Time) error {
	switch output {
	case "-":
		data, err := store.Export()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	case "":
		path, err := transfer.ExportJSON(store, cfg.Export.Dir, now)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Exported %d notes to %s", store.Len(), path)))
		return nil
	}

	data, err := store.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Exported %d notes to %s", store.Len(), output)))
	return nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "export format: json or md (default from config)")
	exportCmd.Flags().StringP("output", "o", "", "output file (json, - for stdout) or directory (md)")
	rootCmd.AddCommand(exportCmd)
}
