package zerocss

import "github.com/charmbracelet/lipgloss"

// Terminal styles shared by the reporters.
// Lipgloss degrades colors to what the terminal supports.
var (
	// StyleCyan is used for file locations and section headers.
	StyleCyan = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleRed is used for errors and failed builds.
	StyleRed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	// StyleYellow is used for warnings and caret indicators.
	StyleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	// StyleGreen is used for success messages.
	StyleGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	// StyleGray is used for linter names and hints.
	StyleGray = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderStyle applies style when colors are enabled
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}
