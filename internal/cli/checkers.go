package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/lintmux/internal/checker"
)

var checkersCmd = &cobra.Command{
	Use:   "checkers",
	Short: "List the configured checkers",
	Args:  cobra.NoArgs,
	RunE:  runCheckers,
}

func init() {
	checkersCmd.Flags().StringP("config", "c", ".lintmux.yml", "checker configuration file")
}

func runCheckers(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	_, specs, err := checker.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, s := range specs {
		mode := "fail-fast"
		if s.ContinueOnFailure {
			mode = "continue"
		}
		fmt.Fprintf(out, "%-16s %s %v  parser=%s  timeout=%s  %s\n",
			s.ID, s.Command, s.Args, s.Parser.Name(), s.Timeout, mode)
	}
	return nil
}
