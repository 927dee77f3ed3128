package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/lintmux/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Run the checkers and browse findings interactively",
	Long: `Run the engine like "lintmux run" but open the findings in an
interactive terminal browser instead of printing a summary.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	addEngineFlags(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	rep, err := executeEngine(cmd)
	if err != nil {
		return err
	}

	if len(rep.Diagnostics) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No findings to browse.")
		return nil
	}

	return tui.Run(rep)
}
