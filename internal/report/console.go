package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/lintmux/internal/model"
)

// Color palette, shared with the TUI.
var (
	colorRed    = lipgloss.Color("#ff5555")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorDim    = lipgloss.Color("#6272a4")
)

type consoleStyles struct {
	err  lipgloss.Style
	warn lipgloss.Style
	info lipgloss.Style
	file lipgloss.Style
	dim  lipgloss.Style
	pass lipgloss.Style
	fail lipgloss.Style
}

func newConsoleStyles(color bool) consoleStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return consoleStyles{plain, plain, plain, plain, plain, plain, plain}
	}
	return consoleStyles{
		err:  lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		warn: lipgloss.NewStyle().Foreground(colorYellow),
		info: lipgloss.NewStyle().Foreground(colorDim),
		file: lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		dim:  lipgloss.NewStyle().Foreground(colorDim),
		pass: lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		fail: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	}
}

// ConsoleSink writes the human-readable summary, grouped by file.
type ConsoleSink struct {
	Out   io.Writer
	Color bool
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) Emit(r *model.AggregateReport) error {
	st := newConsoleStyles(s.Color)

	byFile := r.ByFile()
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Fprintln(s.Out, st.file.Render(file))
		for _, d := range byFile[file] {
			loc := ""
			if d.Line > 0 {
				loc = fmt.Sprintf(":%d", d.Line)
				if d.Column > 0 {
					loc += fmt.Sprintf(":%d", d.Column)
				}
			}
			fmt.Fprintf(s.Out, "  %s %s%s  %s %s\n",
				s.severityMarker(st, d.Severity),
				file, loc,
				d.Message,
				st.dim.Render(fmt.Sprintf("[%s/%s]", d.CheckerID, d.RuleID)),
			)
			if d.Excerpt != "" {
				fmt.Fprintf(s.Out, "      %s\n", s.renderExcerpt(d.File, d.Excerpt))
			}
		}
		fmt.Fprintln(s.Out)
	}

	// Per-checker status, sorted for stable output.
	ids := make([]string, 0, len(r.PerChecker))
	for id := range r.PerChecker {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var statuses []string
	for _, id := range ids {
		statuses = append(statuses, fmt.Sprintf("%s=%s", id, r.PerChecker[id]))
	}
	fmt.Fprintf(s.Out, "Checkers: %s\n", strings.Join(statuses, " "))
	fmt.Fprintf(s.Out, "Findings: %s\n", r.Summary())

	verdict := st.pass.Render("PASS")
	if r.Verdict == model.VerdictFail {
		verdict = st.fail.Render("FAIL")
	}
	fmt.Fprintf(s.Out, "Verdict: %s\n", verdict)

	return nil
}

func (s *ConsoleSink) severityMarker(st consoleStyles, sev model.Severity) string {
	switch sev {
	case model.SeverityError:
		return st.err.Render("E")
	case model.SeverityWarning:
		return st.warn.Render("W")
	default:
		return st.info.Render("I")
	}
}

func (s *ConsoleSink) renderExcerpt(file, excerpt string) string {
	if !s.Color {
		return excerpt
	}
	var b strings.Builder
	for _, tok := range HighlightLine(file, excerpt) {
		if tok.Color == "" {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
	}
	return b.String()
}
