package cmd

import (
	"github.com/spf13/cobra"

	"github.com/StinkyLord/flymake/internal/orchestrate"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build output (and, with --all, dependencies)",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := commonOptions()
		if err != nil {
			return err
		}
		return orchestrate.Clean(".", opts)
	},
}
