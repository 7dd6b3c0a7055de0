package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/codenotes/internal/transfer"
	"github.com/marcus/codenotes/internal/ui"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo notes",
	Long:  `Fill the notebook with generated notes across every language.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		n, err := transfer.Seed(store, count, seed)
		if err != nil {
			return fmt.Errorf("seeded %d of %d notes: %w", n, count, err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Created %d demo notes", n)))
		return nil
	},
}

func init() {
	seedCmd.Flags().IntP("count", "n", 10, "number of notes")
	seedCmd.Flags().Int64("seed", 0, "random seed (0 = time based)")
	rootCmd.AddCommand(seedCmd)
}
