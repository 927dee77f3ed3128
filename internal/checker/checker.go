// Package checker wraps external static-analysis tools behind a uniform
// adapter: how to invoke one, how to parse its output into diagnostics, and
// how to interpret its exit behavior.
package checker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/sprite-ai/lintmux/internal/model"
)

// DefaultTimeout bounds a checker invocation when the config does not set one.
const DefaultTimeout = 2 * time.Minute

// stderr excerpts are truncated to keep run results small.
const maxExcerpt = 4 * 1024

// Spec is the static configuration for one checker. It is read-only for the
// duration of a run and may be shared freely across workers.
type Spec struct {
	ID                string
	Command           string
	Args              []string
	Parser            Parser
	DefaultSeverity   model.Severity // assigned when the output format carries none
	ContinueOnFailure bool           // a crash of this checker does not fail the run
	Timeout           time.Duration
}

// Run invokes the checker as a subprocess bound to the target paths and
// normalizes its behavior into a RunResult. It never returns an error: every
// failure mode (timeout, crash, unparseable output) is encoded in the result
// so that one misbehaving checker cannot abort the run.
func Run(ctx context.Context, spec Spec, paths []string) model.RunResult {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, spec.Args...), paths...)
	cmd := exec.CommandContext(ctx, spec.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	res := model.RunResult{
		CheckerID: spec.ID,
		Duration:  time.Since(start),
		Stderr:    truncate(stderr.String(), maxExcerpt),
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.Crashed = true
		res.TimedOut = true
		res.ExitCode = -1
		return res
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		res.ExitCode = 0
	case errors.As(runErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		// Command could not be started at all (not found, permissions).
		res.Crashed = true
		res.ExitCode = -1
		res.Stderr = truncate(runErr.Error()+"\n"+stderr.String(), maxExcerpt)
		return res
	}

	diags, parseErr := spec.Parser.Parse(spec.ID, stdout.Bytes(), spec.DefaultSeverity)
	if parseErr != nil {
		// Malformed output is a checker crash, never a fault that aborts the
		// run. Preserve the raw output for diagnosis.
		res.Crashed = true
		res.Diagnostics = nil
		res.Stderr = truncate("parse failure: "+parseErr.Error()+"\n"+stdout.String(), maxExcerpt)
		return res
	}
	res.Diagnostics = diags

	// Non-zero exit with findings is the normal "violations found" case.
	// Non-zero exit with nothing parsed means the tool failed for some other
	// reason.
	if res.ExitCode != 0 && len(diags) == 0 {
		res.Crashed = true
	}

	return res
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
