// Package cli implements the lintmux command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lintmux",
	Short: "Run a set of lint checkers and aggregate their findings",
	Long: `lintmux runs a heterogeneous set of external checkers concurrently,
normalizes their output into one diagnostic model, scopes findings to the
lines relevant to a change, and reports a single pass/fail verdict through
console output, a SARIF document, and inline annotations.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkersCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
