// Package tui implements the Bubble Tea findings browser.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/lintmux/internal/model"
)

// Model is the top-level Bubble Tea model for lintmux browse.
type Model struct {
	report *model.AggregateReport

	// Findings grouped by file, files sorted for a stable layout
	files  []string
	byFile map[string][]model.Diagnostic

	// UI state
	width  int
	height int

	fileIndex    int // currently selected file
	scrollOffset int // scroll position within the current file's findings

	showHelp bool
}

// New creates a new TUI model from an aggregate report.
func New(report *model.AggregateReport) Model {
	byFile := report.ByFile()
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	return Model{
		report: report,
		files:  files,
		byFile: byFile,
	}
}

func (m Model) current() []model.Diagnostic {
	if len(m.files) == 0 {
		return nil
	}
	return m.byFile[m.files[m.fileIndex]]
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.scrollOffset < len(m.current())-1 {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.Up):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.NextFile):
			if m.fileIndex < len(m.files)-1 {
				m.fileIndex++
				m.scrollOffset = 0
			}

		case key.Matches(msg, keys.PrevFile):
			if m.fileIndex > 0 {
				m.fileIndex--
				m.scrollOffset = 0
			}

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	fileListWidth := m.fileListWidth()
	findingsWidth := m.width - fileListWidth - 1 // -1 for gap

	fileList := m.renderFileList(fileListWidth, m.height-2)
	findings := m.renderFindings(findingsWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, fileList, " ", findings)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) fileListWidth() int {
	maxLen := 20
	for _, f := range m.files {
		if len(f) > maxLen {
			maxLen = len(f)
		}
	}
	w := maxLen + 8 // padding + count
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	for i, f := range m.files {
		name := f
		maxName := width - 8
		if maxName > 0 && len(name) > maxName {
			name = "…" + name[len(name)-maxName+1:]
		}

		line := fmt.Sprintf("%-*s %d", maxName, name, len(m.byFile[f]))

		style := fileItemStyle
		if i == m.fileIndex {
			style = fileItemSelectedStyle
		}

		b.WriteString(style.Width(width - 4).Render(line))
		if i < len(m.files)-1 {
			b.WriteByte('\n')
		}
	}

	innerHeight := height - 2 // borders
	return fileListStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderFindings(width, height int) string {
	innerHeight := height - 2
	if len(m.files) == 0 {
		return findingsViewStyle.Width(width).Height(innerHeight).Render("No findings")
	}

	file := m.files[m.fileIndex]
	diags := m.byFile[file]

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(file))
	b.WriteByte('\n')

	visible := innerHeight - 2 // header takes some space
	if visible < 1 {
		visible = 1
	}

	end := m.scrollOffset + visible
	if end > len(diags) {
		end = len(diags)
	}

	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(renderFinding(diags[i], width-4))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return findingsViewStyle.Width(width).Height(innerHeight).Render(b.String())
}

func renderFinding(d model.Diagnostic, width int) string {
	loc := ""
	if d.Line > 0 {
		loc = fmt.Sprintf(":%d", d.Line)
		if d.Column > 0 {
			loc += fmt.Sprintf(":%d", d.Column)
		}
	}

	line := fmt.Sprintf("%s%s  %s %s",
		severityStyle(d.Severity).Render(strings.ToUpper(d.Severity.String()[:1])),
		loc,
		d.Message,
		ruleStyle.Render(fmt.Sprintf("[%s/%s]", d.CheckerID, d.RuleID)),
	)
	if d.Excerpt != "" {
		line += "\n    " + excerptStyle.Render(truncateStr(d.Excerpt, width-4))
	}
	return line
}

func severityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityError:
		return severityErrorStyle
	case model.SeverityWarning:
		return severityWarningStyle
	default:
		return severityInfoStyle
	}
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf(" File %d/%d", m.fileIndex+1, len(m.files))
	if n := len(m.current()); n > 0 {
		left += fmt.Sprintf("  Finding %d/%d", m.scrollOffset+1, n)
	}

	verdict := verdictPassStyle.Render("PASS")
	if m.report.Verdict == model.VerdictFail {
		verdict = verdictFailStyle.Render("FAIL")
	}
	right := fmt.Sprintf("%s  %s  ? help ", m.report.Summary(), verdict)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("lintmux — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Scroll up"},
		{"↓/j", "Scroll down"},
		{"n/Tab", "Next file"},
		{"N/S-Tab", "Previous file"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

func truncateStr(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// Run starts the TUI application.
func Run(report *model.AggregateReport) error {
	m := New(report)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
