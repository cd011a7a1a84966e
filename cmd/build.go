package cmd

import (
	"github.com/spf13/cobra"

	"github.com/StinkyLord/flymake/internal/orchestrate"
)

var buildCmd = &cobra.Command{
	Use:   "build [target...]",
	Short: "Build the project, or the given targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := commonOptions()
		if err != nil {
			return err
		}
		return orchestrate.Build(".", args, opts)
	},
}
