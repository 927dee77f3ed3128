package runner

import (
	"context"
	"testing"
	"time"

	"github.com/sprite-ai/lintmux/internal/checker"
	"github.com/sprite-ai/lintmux/internal/model"
)

func shSpec(id, script string) checker.Spec {
	parser, _ := checker.LookupParser("gcc")
	return checker.Spec{
		ID:              id,
		Command:         "sh",
		Args:            []string{"-c", script},
		Parser:          parser,
		DefaultSeverity: model.SeverityWarning,
		Timeout:         10 * time.Second,
	}
}

func TestRunAll(t *testing.T) {
	specs := []checker.Spec{
		shSpec("a", `echo "x.py:1: error: one"; exit 1`),
		shSpec("b", "exit 0"),
		shSpec("c", "exit 7"),
	}

	results, err := RunAll(context.Background(), specs, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byID := make(map[string]model.RunResult)
	for _, r := range results {
		byID[r.CheckerID] = r
	}

	if len(byID["a"].Diagnostics) != 1 || byID["a"].Crashed {
		t.Errorf("checker a: %+v", byID["a"])
	}
	if byID["b"].Status() != model.StatusOK {
		t.Errorf("checker b: %+v", byID["b"])
	}
	// A crashing checker never hides its siblings' results.
	if byID["c"].Status() != model.StatusCrashed {
		t.Errorf("checker c: %+v", byID["c"])
	}
}

func TestRunAllBoundedParallelism(t *testing.T) {
	// Each checker sleeps 200ms; with parallelism 1 four of them must take
	// at least 800ms, proving the limit is enforced.
	var specs []checker.Spec
	for _, id := range []string{"a", "b", "c", "d"} {
		specs = append(specs, shSpec(id, "sleep 0.2"))
	}

	start := time.Now()
	if _, err := RunAll(context.Background(), specs, nil, 1); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 700*time.Millisecond {
		t.Errorf("parallelism limit not enforced: 4 sequential checkers finished in %s", elapsed)
	}
}

func TestRunAllCancellation(t *testing.T) {
	specs := []checker.Spec{
		shSpec("slow1", "sleep 30"),
		shSpec("slow2", "sleep 30"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	results, err := RunAll(ctx, specs, nil, 2)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if results != nil {
		t.Error("cancelled run must not return partial results")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("cancellation did not terminate subprocesses promptly (%s)", elapsed)
	}
}
