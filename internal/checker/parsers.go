package checker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sprite-ai/lintmux/internal/model"
)

// Parser turns one checker's raw stdout into normalized diagnostics. A parse
// error marks the checker as crashed; it must not be used to signal "no
// findings".
type Parser interface {
	Name() string
	Parse(checkerID string, stdout []byte, defaultSev model.Severity) ([]model.Diagnostic, error)
}

// parsers is the registry of built-in output formats, keyed by the name used
// in config files.
var parsers = map[string]Parser{
	"codespell":  codespellParser{},
	"shellcheck": shellcheckParser{},
	"ruff":       ruffParser{},
	"gcc":        gccParser{},
}

// LookupParser returns the built-in parser with the given name.
func LookupParser(name string) (Parser, error) {
	p, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("unknown parser %q (available: %s)", name, strings.Join(ParserNames(), ", "))
	}
	return p, nil
}

// ParserNames returns the sorted names of all built-in parsers.
func ParserNames() []string {
	names := make([]string, 0, len(parsers))
	for n := range parsers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// --- codespell ---
//
// Format: one finding per line,
//   path/to/file.py:10: teh ==> the

var codespellRe = regexp.MustCompile(`^(.+?):(\d+):\s*(\S+)\s*==>\s*(.+)$`)

type codespellParser struct{}

func (codespellParser) Name() string { return "codespell" }

func (codespellParser) Parse(checkerID string, stdout []byte, defaultSev model.Severity) ([]model.Diagnostic, error) {
	var diags []model.Diagnostic
	for lineNo, line := range outputLines(stdout) {
		m := codespellRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d does not match codespell format: %q", lineNo+1, line)
		}
		n, _ := strconv.Atoi(m[2])
		diags = append(diags, model.Diagnostic{
			CheckerID: checkerID,
			File:      m[1],
			Line:      n,
			Severity:  defaultSev,
			RuleID:    "misspelling",
			Message:   fmt.Sprintf("%q should be %q", m[3], strings.TrimSpace(m[4])),
			Excerpt:   line,
		})
	}
	return diags, nil
}

// --- shellcheck ---
//
// Format: `shellcheck --format=json`, a single JSON array.

type shellcheckEntry struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Level   string `json:"level"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type shellcheckParser struct{}

func (shellcheckParser) Name() string { return "shellcheck" }

func (shellcheckParser) Parse(checkerID string, stdout []byte, defaultSev model.Severity) ([]model.Diagnostic, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var entries []shellcheckEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("not a shellcheck JSON array: %w", err)
	}
	var diags []model.Diagnostic
	for _, e := range entries {
		diags = append(diags, model.Diagnostic{
			CheckerID: checkerID,
			File:      e.File,
			Line:      e.Line,
			Column:    e.Column,
			Severity:  levelSeverity(e.Level, defaultSev),
			RuleID:    fmt.Sprintf("SC%d", e.Code),
			Message:   e.Message,
		})
	}
	return diags, nil
}

// --- ruff ---
//
// Format: concise text output,
//   path/to/file.py:10:5: E501 Line too long (120 > 88)

var ruffRe = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s+([A-Z][A-Z0-9]*)\s+(.+)$`)

type ruffParser struct{}

func (ruffParser) Name() string { return "ruff" }

func (ruffParser) Parse(checkerID string, stdout []byte, defaultSev model.Severity) ([]model.Diagnostic, error) {
	var diags []model.Diagnostic
	for lineNo, line := range outputLines(stdout) {
		// Ruff appends a summary line like "Found 3 errors."
		if strings.HasPrefix(line, "Found ") || strings.HasPrefix(line, "[*] ") {
			continue
		}
		m := ruffRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d does not match ruff format: %q", lineNo+1, line)
		}
		n, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		diags = append(diags, model.Diagnostic{
			CheckerID: checkerID,
			File:      m[1],
			Line:      n,
			Column:    col,
			Severity:  defaultSev,
			RuleID:    m[4],
			Message:   m[5],
			Excerpt:   line,
		})
	}
	return diags, nil
}

// --- gcc ---
//
// Generic fallback for tools emitting gcc-style locations,
//   path/to/file.c:10:5: warning: unused variable 'x'
// The column and level are optional.

var gccRe = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:\s*(?:(error|warning|note|info):\s*)?(.+)$`)

type gccParser struct{}

func (gccParser) Name() string { return "gcc" }

func (gccParser) Parse(checkerID string, stdout []byte, defaultSev model.Severity) ([]model.Diagnostic, error) {
	var diags []model.Diagnostic
	for lineNo, line := range outputLines(stdout) {
		m := gccRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d does not match gcc format: %q", lineNo+1, line)
		}
		n, _ := strconv.Atoi(m[2])
		col := 0
		if m[3] != "" {
			col, _ = strconv.Atoi(m[3])
		}
		sev := defaultSev
		if m[4] != "" {
			sev = levelSeverity(m[4], defaultSev)
		}
		diags = append(diags, model.Diagnostic{
			CheckerID: checkerID,
			File:      m[1],
			Line:      n,
			Column:    col,
			Severity:  sev,
			RuleID:    checkerID,
			Message:   m[5],
			Excerpt:   line,
		})
	}
	return diags, nil
}

func levelSeverity(level string, fallback model.Severity) model.Severity {
	switch level {
	case "error":
		return model.SeverityError
	case "warning":
		return model.SeverityWarning
	case "info", "note", "style":
		return model.SeverityInfo
	default:
		return fallback
	}
}

// outputLines splits checker output into lines, preserving order and
// dropping blanks.
func outputLines(out []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) != "" {
			lines = append(lines, text)
		}
	}
	return lines
}
