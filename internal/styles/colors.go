package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	// Base colors
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	// Accent colors
	Red     = "#FF6188" // Errors, TODO
	Orange  = "#FC9867" // Warnings, priorities
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success, DONE
	Cyan    = "#78DCE8" // Info, tags
	Blue    = "#AB9DF2" // Links, properties
	Magenta = "#FF6188" // Titles, emphasis

	// UI colors
	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	// Outline styles
	TodoStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Red))
	DoneStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Green))
	PriorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	TagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	PropertyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue))
	MarkerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow))

	// Table/list styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))

	NormalTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground))
)

// levelColors cycle through headline depths
var levelColors = []string{Magenta, Cyan, Green, Yellow, Blue, Orange}

// LevelStyle returns the headline style for a 1-based outline level.
func LevelStyle(level int) lipgloss.Style {
	if level < 1 {
		level = 1
	}
	return lipgloss.NewStyle().
		Bold(level == 1).
		Foreground(lipgloss.Color(levelColors[(level-1)%len(levelColors)]))
}
