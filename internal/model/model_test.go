package model

import (
	"testing"
	"time"
)

func TestSeverityStrings(t *testing.T) {
	cases := map[Severity]string{
		SeverityInfo:    "info",
		SeverityWarning: "warning",
		SeverityError:   "error",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
		parsed, err := ParseSeverity(want)
		if err != nil {
			t.Errorf("ParseSeverity(%q): %v", want, err)
		}
		if parsed != sev {
			t.Errorf("ParseSeverity(%q) = %v, want %v", want, parsed, sev)
		}
	}

	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestRunResultStatus(t *testing.T) {
	cases := []struct {
		name string
		res  RunResult
		want CheckerStatus
	}{
		{"ok", RunResult{}, StatusOK},
		{"crashed", RunResult{Crashed: true}, StatusCrashed},
		{"timed out", RunResult{Crashed: true, TimedOut: true}, StatusTimedOut},
	}
	for _, tc := range cases {
		if got := tc.res.Status(); got != tc.want {
			t.Errorf("%s: Status() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDiagnosticKey(t *testing.T) {
	a := Diagnostic{CheckerID: "ruff", File: "a.py", Line: 10, Column: 5, RuleID: "E501", Message: "long line"}
	b := a
	b.Message = "different message, same identity"
	if a.Key() != b.Key() {
		t.Error("diagnostics differing only in message should share a key")
	}

	c := a
	c.Line = 11
	if a.Key() == c.Key() {
		t.Error("diagnostics at different lines must not share a key")
	}
}

func TestReportSummary(t *testing.T) {
	empty := &AggregateReport{GeneratedAt: time.Now()}
	if got := empty.Summary(); got != "No findings" {
		t.Errorf("empty Summary() = %q", got)
	}

	r := &AggregateReport{
		Diagnostics: []Diagnostic{
			{Severity: SeverityError},
			{Severity: SeverityWarning},
			{Severity: SeverityWarning},
			{Severity: SeverityInfo},
		},
	}
	if got := r.Summary(); got != "1 error, 2 warning, 1 info" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestReportByFile(t *testing.T) {
	r := &AggregateReport{
		Diagnostics: []Diagnostic{
			{File: "a.py", Line: 1},
			{File: "b.sh", Line: 2},
			{File: "a.py", Line: 3},
		},
	}
	byFile := r.ByFile()
	if len(byFile) != 2 {
		t.Fatalf("expected 2 files, got %d", len(byFile))
	}
	if len(byFile["a.py"]) != 2 {
		t.Errorf("expected 2 findings for a.py, got %d", len(byFile["a.py"]))
	}
}
