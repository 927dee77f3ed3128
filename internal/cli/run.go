package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/lintmux/internal/aggregate"
	"github.com/sprite-ai/lintmux/internal/checker"
	"github.com/sprite-ai/lintmux/internal/model"
	"github.com/sprite-ai/lintmux/internal/report"
	"github.com/sprite-ai/lintmux/internal/runner"
	"github.com/sprite-ai/lintmux/internal/scope"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all configured checkers and report the verdict",
	Long: `Run every checker from the config file concurrently and aggregate
their findings into one report.

By default findings are scoped to the lines changed against the base
reference; use --all-files for full-repository enforcement runs.

Exit codes:
  0  pass
  1  fail, or a fatal configuration error (see stderr)`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addEngineFlags(runCmd)
	runCmd.Flags().String("output", "", "write a SARIF document to this path")
	runCmd.Flags().Bool("annotations", false, "emit inline annotations on stdout")
	runCmd.Flags().Bool("draft", false, "draft change: suppress inline annotations")
	runCmd.Flags().Bool("no-color", false, "disable colored console output")
	runCmd.Flags().Bool("force-color", false, "force colored console output")
}

// addEngineFlags registers the flags shared by every command that executes
// the engine.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", ".lintmux.yml", "checker configuration file")
	cmd.Flags().Bool("all-files", false, "put every line of every file in scope")
	cmd.Flags().StringSlice("paths", nil, "restrict checkers to these paths")
	cmd.Flags().String("diff", "", "unified diff file describing the change (- for stdin)")
	cmd.Flags().String("base", "origin/main", "base reference for git diff scoping")
	cmd.Flags().String("scope-mode", "changed", "line scoping policy: changed, added, or all")
	cmd.Flags().String("severity-floor", "", "drop findings below this severity (overrides config)")
	cmd.Flags().IntP("max-parallelism", "j", 0, "max concurrent checkers (overrides config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	rep, err := executeEngine(cmd)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	forceColor, _ := cmd.Flags().GetBool("force-color")
	color := !noColor || forceColor

	sinks := []report.Sink{
		&report.ConsoleSink{Out: cmd.OutOrStdout(), Color: color},
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		sinks = append(sinks, &report.SARIFSink{Path: output, Version: version})
	}

	if annotations, _ := cmd.Flags().GetBool("annotations"); annotations {
		draft, _ := cmd.Flags().GetBool("draft")
		sinks = append(sinks, &report.AnnotationSink{Out: cmd.OutOrStdout(), Draft: draft})
	}

	report.Emit(rep, sinks, cmd.ErrOrStderr())

	if rep.Verdict == model.VerdictFail {
		os.Exit(1)
	}
	return nil
}

// executeEngine runs the full pipeline: config, scope, checkers, aggregation.
// Errors it returns are configuration errors; checker failures never surface
// here, they live in the report.
func executeEngine(cmd *cobra.Command) (*model.AggregateReport, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, specs, err := checker.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	floor, err := resolveFloor(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	mask, err := computeMask(cmd)
	if err != nil {
		return nil, fmt.Errorf("scope error: %w", err)
	}

	parallelism, _ := cmd.Flags().GetInt("max-parallelism")
	if parallelism <= 0 {
		parallelism = cfg.MaxParallelism
	}

	paths, _ := cmd.Flags().GetStringSlice("paths")
	if len(paths) == 0 {
		paths = []string{"."}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := runner.RunAll(ctx, specs, paths, parallelism)
	if err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	return aggregate.Aggregate(results, mask, floor, specs), nil
}

func resolveFloor(cmd *cobra.Command, cfg *checker.Config) (model.Severity, error) {
	name, _ := cmd.Flags().GetString("severity-floor")
	if name == "" {
		name = cfg.SeverityFloor
	}
	return model.ParseSeverity(name)
}

func computeMask(cmd *cobra.Command) (*scope.Mask, error) {
	allFiles, _ := cmd.Flags().GetBool("all-files")
	if allFiles {
		return scope.Everything(), nil
	}

	modeName, _ := cmd.Flags().GetString("scope-mode")
	mode, err := scope.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	if mode == scope.AllFiles {
		return scope.Everything(), nil
	}

	raw, err := readDiff(cmd)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "lintmux: empty diff, nothing in scope")
	}
	return scope.Compute(raw, mode)
}

func readDiff(cmd *cobra.Command) (string, error) {
	diffPath, _ := cmd.Flags().GetString("diff")
	switch diffPath {
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case "":
		repoDir, err := scope.GitRepoRoot()
		if err != nil {
			return "", fmt.Errorf("not in a git repository (or git not installed): %w", err)
		}
		base, _ := cmd.Flags().GetString("base")
		return scope.GitDiffBase(repoDir, base)
	default:
		data, err := os.ReadFile(diffPath)
		if err != nil {
			return "", fmt.Errorf("reading diff: %w", err)
		}
		return string(data), nil
	}
}
