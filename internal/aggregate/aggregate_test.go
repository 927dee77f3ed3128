package aggregate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sprite-ai/lintmux/internal/checker"
	"github.com/sprite-ai/lintmux/internal/model"
	"github.com/sprite-ai/lintmux/internal/scope"
)

const sampleDiff = `diff --git a/other.py b/other.py
index abc1234..def5678 100644
--- a/other.py
+++ b/other.py
@@ -1,2 +1,3 @@
 import os
+import sys
 print("hi")
`

func diag(checkerID, file string, line int, sev model.Severity, rule string) model.Diagnostic {
	return model.Diagnostic{
		CheckerID: checkerID,
		File:      file,
		Line:      line,
		Severity:  sev,
		RuleID:    rule,
		Message:   "m",
	}
}

func specsFor(failFast ...string) []checker.Spec {
	ff := make(map[string]bool)
	for _, id := range failFast {
		ff[id] = true
	}
	var specs []checker.Spec
	for _, id := range []string{"a", "b", "c"} {
		specs = append(specs, checker.Spec{ID: id, ContinueOnFailure: !ff[id]})
	}
	return specs
}

func TestAggregateDeterministic(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "b", Diagnostics: []model.Diagnostic{
			diag("b", "z.py", 5, model.SeverityWarning, "W1"),
			diag("b", "a.py", 9, model.SeverityWarning, "W2"),
		}},
		{CheckerID: "a", Diagnostics: []model.Diagnostic{
			diag("a", "a.py", 9, model.SeverityInfo, "I1"),
		}},
	}

	r1 := Aggregate(results, scope.Everything(), model.SeverityInfo, specsFor())
	r2 := Aggregate(results, scope.Everything(), model.SeverityInfo, specsFor())

	if diff := cmp.Diff(r1.Diagnostics, r2.Diagnostics); diff != "" {
		t.Errorf("repeated aggregation differs (-first +second):\n%s", diff)
	}
	if r1.Verdict != r2.Verdict {
		t.Error("repeated aggregation produced different verdicts")
	}

	// Stable order: (file, line, checker, rule).
	want := []string{"I1", "W2", "W1"}
	for i, d := range r1.Diagnostics {
		if d.RuleID != want[i] {
			t.Fatalf("unexpected order: %v", r1.Diagnostics)
		}
	}
}

func TestAggregateDedupIdempotent(t *testing.T) {
	base := []model.RunResult{
		{CheckerID: "a", Diagnostics: []model.Diagnostic{
			diag("a", "a.py", 1, model.SeverityWarning, "W1"),
			diag("a", "a.py", 2, model.SeverityWarning, "W1"),
		}},
	}
	doubled := append(append([]model.RunResult{}, base...), base...)

	once := Aggregate(base, scope.Everything(), model.SeverityInfo, specsFor())
	twice := Aggregate(doubled, scope.Everything(), model.SeverityInfo, specsFor())

	if diff := cmp.Diff(once.Diagnostics, twice.Diagnostics); diff != "" {
		t.Errorf("dedup not idempotent (-once +twice):\n%s", diff)
	}
}

func TestAggregateScopeMonotonic(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "a", Diagnostics: []model.Diagnostic{
			diag("a", "other.py", 2, model.SeverityWarning, "W1"),  // in changed scope
			diag("a", "other.py", 50, model.SeverityWarning, "W2"), // outside
			diag("a", "file.py", 10, model.SeverityWarning, "W3"),  // untouched file
		}},
	}

	mask, err := scope.Compute(sampleDiff, scope.ChangedLines)
	if err != nil {
		t.Fatal(err)
	}

	narrow := Aggregate(results, mask, model.SeverityInfo, specsFor())
	wide := Aggregate(results, scope.Everything(), model.SeverityInfo, specsFor())

	wideKeys := make(map[string]bool)
	for _, d := range wide.Diagnostics {
		wideKeys[d.Key()] = true
	}
	for _, d := range narrow.Diagnostics {
		if !wideKeys[d.Key()] {
			t.Errorf("diagnostic %v kept under changed scope but not all scope", d)
		}
	}
	if len(narrow.Diagnostics) >= len(wide.Diagnostics) {
		t.Errorf("expected narrowing: %d narrow vs %d wide", len(narrow.Diagnostics), len(wide.Diagnostics))
	}
}

func TestAggregateSeverityFloorMonotonic(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "a", Diagnostics: []model.Diagnostic{
			diag("a", "a.py", 1, model.SeverityInfo, "I1"),
			diag("a", "a.py", 2, model.SeverityWarning, "W1"),
			diag("a", "a.py", 3, model.SeverityError, "E1"),
		}},
	}

	prev := -1
	for _, floor := range []model.Severity{model.SeverityInfo, model.SeverityWarning, model.SeverityError} {
		r := Aggregate(results, scope.Everything(), floor, specsFor())
		if prev >= 0 && len(r.Diagnostics) > prev {
			t.Errorf("raising floor to %v increased diagnostic count to %d", floor, len(r.Diagnostics))
		}
		prev = len(r.Diagnostics)
	}
	if prev != 1 {
		t.Errorf("error floor should keep exactly the error diagnostic, kept %d", prev)
	}
}

func TestCrashContinueOnFailureDoesNotFail(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "a", Crashed: true},
		{CheckerID: "b", Diagnostics: []model.Diagnostic{
			diag("b", "a.py", 1, model.SeverityWarning, "W1"),
		}},
	}

	r := Aggregate(results, scope.Everything(), model.SeverityInfo, specsFor())
	if r.Verdict != model.VerdictPass {
		t.Errorf("continue-on-failure crash flipped the verdict: %v", r.Verdict)
	}
	if r.PerChecker["a"] != model.StatusCrashed {
		t.Errorf("status must reflect execution, got %v", r.PerChecker["a"])
	}
}

func TestCrashFailFastFails(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "a", Crashed: true},
	}

	r := Aggregate(results, scope.Everything(), model.SeverityInfo, specsFor("a"))
	if r.Verdict != model.VerdictFail {
		t.Errorf("fail-fast crash must fail the run, got %v", r.Verdict)
	}
}

// Two checkers, A reports one error at file.py:10, B reports nothing; scope
// is everything: the run fails and the report holds exactly that finding.
func TestScenarioErrorInScope(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "a", Diagnostics: []model.Diagnostic{
			diag("a", "file.py", 10, model.SeverityError, "E1"),
		}},
		{CheckerID: "b"},
	}

	r := Aggregate(results, scope.Everything(), model.SeverityInfo, specsFor())
	if r.Verdict != model.VerdictFail {
		t.Errorf("expected fail, got %v", r.Verdict)
	}
	if len(r.Diagnostics) != 1 {
		t.Errorf("expected exactly one diagnostic, got %d", len(r.Diagnostics))
	}
}

// Same finding, but the diff touches a different file: the run passes with
// zero visible findings, while A's execution status stays ok.
func TestScenarioErrorOutOfScope(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "a", Diagnostics: []model.Diagnostic{
			diag("a", "file.py", 10, model.SeverityError, "E1"),
		}},
		{CheckerID: "b"},
	}

	mask, err := scope.Compute(sampleDiff, scope.ChangedLines)
	if err != nil {
		t.Fatal(err)
	}

	r := Aggregate(results, mask, model.SeverityInfo, specsFor())
	if r.Verdict != model.VerdictPass {
		t.Errorf("expected pass, got %v", r.Verdict)
	}
	if len(r.Diagnostics) != 0 {
		t.Errorf("expected zero diagnostics, got %d", len(r.Diagnostics))
	}
	if r.PerChecker["a"] != model.StatusOK {
		t.Errorf("execution succeeded, status must be ok, got %v", r.PerChecker["a"])
	}
}

// Fail-fast checker C times out: the run fails, C's status says timed_out,
// and the other checkers' findings are still present.
func TestScenarioTimeout(t *testing.T) {
	results := []model.RunResult{
		{CheckerID: "a", Diagnostics: []model.Diagnostic{
			diag("a", "a.py", 1, model.SeverityWarning, "W1"),
		}},
		{CheckerID: "c", Crashed: true, TimedOut: true},
	}

	r := Aggregate(results, scope.Everything(), model.SeverityInfo, specsFor("c"))
	if r.Verdict != model.VerdictFail {
		t.Errorf("expected fail, got %v", r.Verdict)
	}
	if r.PerChecker["c"] != model.StatusTimedOut {
		t.Errorf("expected timed_out, got %v", r.PerChecker["c"])
	}
	if len(r.Diagnostics) != 1 {
		t.Errorf("sibling findings must survive, got %d diagnostics", len(r.Diagnostics))
	}
}
