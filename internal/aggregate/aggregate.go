// Package aggregate merges checker run results into the single immutable
// report every sink renders.
package aggregate

import (
	"sort"
	"time"

	"github.com/sprite-ai/lintmux/internal/checker"
	"github.com/sprite-ai/lintmux/internal/model"
	"github.com/sprite-ai/lintmux/internal/scope"
)

// Aggregate merges all diagnostics across results, suppresses exact
// duplicates, applies the scope mask and severity floor, and derives the
// verdict. The output is deterministic for a fixed input set: diagnostics are
// stable-sorted by (file, line, checker, rule) so identical runs produce
// byte-identical reports.
//
// The verdict fails iff any post-filter diagnostic is error severity, or any
// checker not configured to continue on failure crashed. Per-checker status
// reflects actual execution, not diagnostic visibility.
func Aggregate(results []model.RunResult, mask *scope.Mask, floor model.Severity, specs []checker.Spec) *model.AggregateReport {
	report := &model.AggregateReport{
		PerChecker:  make(map[string]model.CheckerStatus, len(results)),
		GeneratedAt: time.Now().UTC(),
	}

	var merged []model.Diagnostic
	seen := make(map[string]bool)
	for _, res := range results {
		report.PerChecker[res.CheckerID] = res.Status()
		for _, d := range res.Diagnostics {
			// Two checkers, or one checker invoked on overlapping paths,
			// can report the same finding.
			key := d.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, d)
		}
	}

	kept := scope.Filter(merged, mask)

	for _, d := range kept {
		if d.Severity < floor {
			continue
		}
		report.Diagnostics = append(report.Diagnostics, d)
	}

	sort.SliceStable(report.Diagnostics, func(i, j int) bool {
		a, b := report.Diagnostics[i], report.Diagnostics[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.CheckerID != b.CheckerID {
			return a.CheckerID < b.CheckerID
		}
		return a.RuleID < b.RuleID
	})

	report.Verdict = verdict(report.Diagnostics, results, specs)
	return report
}

func verdict(diags []model.Diagnostic, results []model.RunResult, specs []checker.Spec) model.Verdict {
	for _, d := range diags {
		if d.Severity >= model.SeverityError {
			return model.VerdictFail
		}
	}

	failFast := make(map[string]bool, len(specs))
	for _, s := range specs {
		if !s.ContinueOnFailure {
			failFast[s.ID] = true
		}
	}
	for _, res := range results {
		if res.Crashed && failFast[res.CheckerID] {
			return model.VerdictFail
		}
	}

	return model.VerdictPass
}
