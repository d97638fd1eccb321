package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ecoguard/backend/internal/scorecard"
)

// Palette shared with the web dashboard
var (
	Accent = lipgloss.Color(scorecard.ColorLifestyle)
	Muted  = lipgloss.Color("#6b7280")
	Danger = lipgloss.Color(scorecard.ColorHigh)
)

// Styles holds the lipgloss styles of the terminal wizard
type Styles struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Card     lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the standard styles
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Subtle:   lipgloss.NewStyle().Foreground(Muted),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Selected: lipgloss.NewStyle().Underline(true),
		Error:    lipgloss.NewStyle().Foreground(Danger),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(1, 2),
		Help: lipgloss.NewStyle().Foreground(Muted).Italic(true),
	}
}
