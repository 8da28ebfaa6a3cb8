package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// StageStyle styles the pipeline stage banner.
	StageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

	// SuccessStyle styles the final success line.
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))

	// ErrorStyle styles failure lines.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	// FaintStyle styles secondary detail such as paths.
	FaintStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"installed":     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"authenticated": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"complete":      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"downloading": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"extracting":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Skipped / warning
		"missing": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"cached":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Error
		"error": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Stage renders a numbered stage banner such as "[2/6] updating SteamCMD".
func Stage(index, total int, name string) string {
	return StageStyle.Render(fmtStage(index, total)) + " " + name
}
