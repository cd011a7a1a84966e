package cmd

import (
	"github.com/spf13/cobra"

	"github.com/StinkyLord/flymake/internal/orchestrate"
)

var runCmd = &cobra.Command{
	Use:   "run [target...] [-- passthrough-args...]",
	Short: "Build the project, then execute the resolved target(s)",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := commonOptions()
		if err != nil {
			return err
		}
		own, passthrough := splitAtDash(cmd, args)
		return orchestrate.Run(".", own, passthrough, opts)
	},
}

var testCmd = &cobra.Command{
	Use:   "test [target...] [-- passthrough-args...]",
	Short: "Build the project, then execute the test target(s)",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := commonOptions()
		if err != nil {
			return err
		}
		own, passthrough := splitAtDash(cmd, args)
		return orchestrate.Test(".", own, passthrough, opts)
	},
}

// splitAtDash separates flymake's own positional arguments from a trailing
// "--" passthrough list (original §6.1), using cobra's own dash-index
// bookkeeping rather than re-scanning args for a literal "--".
func splitAtDash(cmd *cobra.Command, args []string) (own, passthrough []string) {
	if i := cmd.ArgsLenAtDash(); i >= 0 {
		return args[:i], args[i:]
	}
	return args, nil
}
