// Package runner supervises the concurrent execution of all configured
// checkers for one run.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/lintmux/internal/checker"
	"github.com/sprite-ai/lintmux/internal/model"
)

// DefaultParallelism bounds concurrent checker subprocesses when the caller
// does not set a limit.
const DefaultParallelism = 4

// RunAll invokes every spec's checker concurrently, one subprocess per
// checker, bounded by maxParallelism. The order of the returned results is
// undefined; consumers must not depend on it.
//
// A crashing checker never cancels its siblings: fail-fast semantics apply at
// the verdict stage, so all results are gathered regardless. Cancelling ctx
// terminates all in-flight subprocesses and returns ctx.Err() with no
// partial result set.
func RunAll(ctx context.Context, specs []checker.Spec, paths []string, maxParallelism int) ([]model.RunResult, error) {
	if maxParallelism <= 0 {
		maxParallelism = DefaultParallelism
	}

	results := make([]model.RunResult, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelism)
	for i, spec := range specs {
		g.Go(func() error {
			start := time.Now()
			results[i] = checker.Run(gctx, spec, paths)
			fmt.Fprintf(os.Stderr, "lintmux: %s finished in %s (%s)\n",
				spec.ID, time.Since(start).Round(time.Millisecond), results[i].Status())
			return nil
		})
	}
	// Workers never return errors; failures live in their RunResult.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
