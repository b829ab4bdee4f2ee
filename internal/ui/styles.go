package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorPanel     = lipgloss.Color("236")
)

// HeaderStyle for the title line.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// HeaderDim for the endpoint shown next to the title.
var HeaderDim = lipgloss.NewStyle().
	Foreground(colorMuted)

// InputPrompt style for the prompt in front of the input.
var InputPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// InputText style for the typed value.
var InputText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// Result row styles. Match variants emphasise the characters of the query.
var (
	ResultItem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	ResultMatch = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Underline(true)

	ResultSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(colorPrimary)

	ResultSelectedMatch = lipgloss.NewStyle().
				Bold(true).
				Underline(true).
				Foreground(colorHighlight).
				Background(colorPrimary)

	ResultMore = lipgloss.NewStyle().
			Foreground(colorSecondary)
)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorPanel).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// HintStyle for the refused-submit message.
var HintStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("214")).
	Bold(true)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
