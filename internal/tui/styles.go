package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorBgLight   = lipgloss.Color("#343746")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// File list styles
	fileListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	fileItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	fileItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	// Findings panel styles
	findingsViewStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	severityErrorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	severityWarningStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	severityInfoStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	ruleStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	excerptStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	verdictPassStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Background(colorBgLight).
				Bold(true)

	verdictFailStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Background(colorBgLight).
				Bold(true)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)
