// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"planner/internal/config"
)

var (
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2563eb")).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats errors or failure messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// HeaderStyle formats table headers.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0f172a"))
)

// ApplyTheme retints the shared styles from the active theme palette.
func ApplyTheme(theme config.Theme) {
	TitleStyle = TitleStyle.Foreground(lipgloss.Color(theme.Accent))
	SubtleStyle = SubtleStyle.Foreground(lipgloss.Color(theme.Muted))
	HeaderStyle = HeaderStyle.Foreground(lipgloss.Color(theme.Table.HeaderFG))
}

// FormatTitle renders a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatSuccess renders a success message.
func FormatSuccess(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// FormatWarning renders a warning message.
func FormatWarning(msg string) string {
	return WarningStyle.Render("⚠ " + msg)
}

// FormatError renders an error message.
func FormatError(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}
