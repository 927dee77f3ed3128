// Package model defines the core data types shared across lintmux.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name (as used in flags and config files)
// into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q (want info, warning, or error)", s)
	}
}

// CheckerStatus records how a checker's subprocess finished.
type CheckerStatus int

const (
	StatusOK CheckerStatus = iota
	StatusCrashed
	StatusTimedOut
)

func (c CheckerStatus) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusCrashed:
		return "crashed"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Verdict is the overall pass/fail outcome of a run.
type Verdict int

const (
	VerdictPass Verdict = iota
	VerdictFail
)

func (v Verdict) String() string {
	if v == VerdictFail {
		return "fail"
	}
	return "pass"
}

// Diagnostic is one normalized finding produced by a checker. Line 0 means
// the finding is file-level; Column 0 means the column is unknown.
type Diagnostic struct {
	CheckerID string
	File      string
	Line      int
	Column    int
	Severity  Severity
	RuleID    string
	Message   string
	Excerpt   string // raw source or checker output line, may be empty
}

// Key returns the identity used for deduplication.
func (d Diagnostic) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%d\x00%d\x00%s", d.CheckerID, d.File, d.Line, d.Column, d.RuleID)
}

func (d Diagnostic) String() string {
	loc := d.File
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.File, d.Line)
		if d.Column > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Column)
		}
	}
	return fmt.Sprintf("[%s] %s %s: %s (%s)", d.CheckerID, d.Severity, loc, d.Message, d.RuleID)
}

// RunResult is everything one checker invocation produced. It is owned by the
// worker that ran the checker until handed to the aggregator.
type RunResult struct {
	CheckerID   string
	Diagnostics []Diagnostic
	ExitCode    int
	Duration    time.Duration
	Crashed     bool
	TimedOut    bool
	Stderr      string // truncated excerpt for diagnosis
}

// Status derives the execution status for reporting.
func (r RunResult) Status() CheckerStatus {
	switch {
	case r.TimedOut:
		return StatusTimedOut
	case r.Crashed:
		return StatusCrashed
	default:
		return StatusOK
	}
}

// AggregateReport is the single merged result of a run. It is built exactly
// once per run and never mutated afterwards; every reporting sink renders the
// same report.
type AggregateReport struct {
	Diagnostics []Diagnostic             // post-filter, stable-sorted
	PerChecker  map[string]CheckerStatus // execution status, unaffected by filtering
	Verdict     Verdict
	GeneratedAt time.Time
}

// ByFile returns report diagnostics grouped by file path.
func (r *AggregateReport) ByFile() map[string][]Diagnostic {
	m := make(map[string][]Diagnostic)
	for _, d := range r.Diagnostics {
		m[d.File] = append(m[d.File], d)
	}
	return m
}

// Counts returns the number of diagnostics per severity.
func (r *AggregateReport) Counts() map[Severity]int {
	counts := make(map[Severity]int)
	for _, d := range r.Diagnostics {
		counts[d.Severity]++
	}
	return counts
}

// Summary returns a one-line summary of the report.
func (r *AggregateReport) Summary() string {
	if len(r.Diagnostics) == 0 {
		return "No findings"
	}
	counts := r.Counts()
	var parts []string
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		if c := counts[sev]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, sev))
		}
	}
	return strings.Join(parts, ", ")
}
