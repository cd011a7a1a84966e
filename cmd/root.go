// Package cmd wires the cobra command surface onto internal/orchestrate
// (original §6.1).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/flymake/internal/manifest"
	"github.com/StinkyLord/flymake/internal/orchestrate"
)

var (
	flagForceRebuild bool
	flagDebug        string
	flagDryRun       bool
	flagVerbose      string
	flagWarningsOff  bool
	flagAll          bool
	flagRuleLib      bool
	flagRuleSrc      bool
	flagRuleTool     bool
)

var rootCmd = &cobra.Command{
	Use:   "flymake",
	Short: "A manifest-driven build and dependency tool for C/C++ projects",
	Long: `flymake resolves a project's flymake.toml manifest, its compiler rules
and folder rules, and its package dependencies, then drives the
compiler, archiver, and linker to build, clean, run, or test the
result.`,
	// No command given: build is assumed (original §6.1).
	RunE: buildCmd.RunE,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagForceRebuild, "force", "B", false, "force rebuild of project files (not dependencies)")
	pf.StringVarP(&flagDebug, "debug", "D", "", "enable debug flags; optional =N sets the debug level")
	pf.Lookup("debug").NoOptDefVal = "1"
	pf.BoolVarP(&flagDryRun, "dry-run", "n", false, "print commands but do not execute them")
	pf.StringVarP(&flagVerbose, "verbose", "v", "", "verbosity 0/1/2")
	pf.Lookup("verbose").NoOptDefVal = "1"
	pf.BoolVar(&flagWarningsOff, "w-", false, "disable warnings-as-errors")
	pf.BoolVar(&flagAll, "all", false, "also rebuild (or, for clean, also remove) dependencies")
	pf.BoolVar(&flagRuleLib, "rl", false, "force the library rule for all targets")
	pf.BoolVar(&flagRuleSrc, "rs", false, "force the source-program rule for all targets")
	pf.BoolVar(&flagRuleTool, "rt", false, "force the tool-folder rule for all targets")

	rootCmd.AddCommand(buildCmd, cleanCmd, runCmd, testCmd, newCmd)
}

// Execute runs the command tree, printing any error to stderr and exiting
// with status 1 (original §6.1's "exit code: 0 on success, 1 on any
// error").
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonOptions assembles an orchestrate.Options from the persistent flags
// shared by every subcommand.
func commonOptions() (orchestrate.Options, error) {
	debugLevel, err := parseOptionalInt(flagDebug, -1)
	if err != nil {
		return orchestrate.Options{}, fmt.Errorf("invalid -D value %q: %w", flagDebug, err)
	}
	verbosity, err := parseOptionalInt(flagVerbose, 0)
	if err != nil {
		return orchestrate.Options{}, fmt.Errorf("invalid -v value %q: %w", flagVerbose, err)
	}

	if countTrue(flagRuleLib, flagRuleSrc, flagRuleTool) > 1 {
		return orchestrate.Options{}, fmt.Errorf("--rl, --rs, --rt are mutually exclusive")
	}

	opts := orchestrate.Options{
		ForceRebuild: flagForceRebuild,
		DebugLevel:   debugLevel,
		DryRun:       flagDryRun,
		Verbosity:    verbosity,
		WarningsOff:  flagWarningsOff,
		All:          flagAll,
	}

	switch {
	case flagRuleLib:
		opts.ForcedRule, opts.HasForcedRule = manifest.RuleLibrary, true
	case flagRuleSrc:
		opts.ForcedRule, opts.HasForcedRule = manifest.RuleSourceProgram, true
	case flagRuleTool:
		opts.ForcedRule, opts.HasForcedRule = manifest.RuleToolFolder, true
	}

	return opts, nil
}

// parseOptionalInt parses the -D[=N]/-v[=N] family: unset ("") returns
// unset, present-without-value (NoOptDefVal kicks in as "1") or
// present-with-value parses as a base-10 integer.
func parseOptionalInt(raw string, unset int) (int, error) {
	if raw == "" {
		return unset, nil
	}
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return 0, err
	}
	return n, nil
}

func countTrue(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

