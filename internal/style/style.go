// Package style holds the lipgloss styles shared by the command line output
// and the terminal UI.
package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Success marks a completed punch or rate change.
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")). // Green
		Bold(true)

	// Warning marks a rejected operation that left state untouched.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")). // Yellow
		Bold(true)

	// Error marks failures reading or writing the data files.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")). // Red
		Bold(true)

	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")) // Blue

	// Dim is for secondary details such as file paths and timestamps.
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")) // Gray

	Bold = lipgloss.NewStyle().
		Bold(true)

	// Title heads each terminal UI screen.
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("4")).
		Bold(true).
		Padding(0, 1)

	// Panel frames the terminal UI body.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	// Money renders amounts owed.
	Money = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// Successf formats a line prefixed with the success mark.
func Successf(format string, args ...any) string {
	return SuccessPrefix + " " + fmt.Sprintf(format, args...)
}

// Warningf formats a line prefixed with the warning mark.
func Warningf(format string, args ...any) string {
	return WarningPrefix + " " + fmt.Sprintf(format, args...)
}

// Errorf formats a line prefixed with the error mark.
func Errorf(format string, args ...any) string {
	return ErrorPrefix + " " + fmt.Sprintf(format, args...)
}
