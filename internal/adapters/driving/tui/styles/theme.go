// Package styles provides colour themes and styling for the reader TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the reader.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Pivot highlights the optimal recognition point of a word.
	Pivot lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Pivot:      lipgloss.Color("#F38BA8"), // Red
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the document header.
	Title lipgloss.Style

	// Word style for the displayed token text.
	Word lipgloss.Style

	// Pivot style for the highlighted pivot rune.
	Pivot lipgloss.Style

	// Muted style for the status line and help.
	Muted lipgloss.Style

	// Warning style for degraded states.
	Warning lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	return &Styles{
		theme:   theme,
		Title:   lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		Word:    lipgloss.NewStyle().Foreground(theme.Foreground).Bold(true),
		Pivot:   lipgloss.NewStyle().Foreground(theme.Pivot).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
	}
}

// Theme returns the underlying theme.
func (s *Styles) Theme() *Theme {
	return s.theme
}
