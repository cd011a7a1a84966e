package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/flymake/internal/orchestrate"
)

var (
	flagNewLib bool
	flagNewCpp bool
)

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Scaffold a new project skeleton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := orchestrate.New(args[0], orchestrate.NewOptions{
			Lib: flagNewLib,
			Cpp: flagNewCpp,
		}); err != nil {
			return err
		}
		fmt.Printf("created new project at %s\n", args[0])
		return nil
	},
}

func init() {
	newCmd.Flags().BoolVar(&flagNewLib, "lib", false, "scaffold a library skeleton instead of a program")
	newCmd.Flags().BoolVar(&flagNewCpp, "cpp", false, "scaffold C++ sources instead of C")
}
