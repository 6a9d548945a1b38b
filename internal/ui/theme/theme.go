// Package theme holds the terminal palette and styles used to print plans.
package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/schedule"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Warn      = lipgloss.Color("#EAB308") // Amber
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Notices
var (
	Warning = lipgloss.NewStyle().
		Foreground(Warn).
		Bold(true)

	Advisory = lipgloss.NewStyle().
			Foreground(Accent)

	Risk = lipgloss.NewStyle().
		Foreground(Error)
)

// Progress bar cells
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

var activityStyles = map[schedule.Activity]lipgloss.Style{
	schedule.ActivityStudy:      lipgloss.NewStyle().Foreground(Primary).Bold(true),
	schedule.ActivityReview:     lipgloss.NewStyle().Foreground(Secondary),
	schedule.ActivityMiniReview: lipgloss.NewStyle().Foreground(Success),
	schedule.ActivityBreak:      lipgloss.NewStyle().Foreground(TextDim),
	schedule.ActivityBuffer:     lipgloss.NewStyle().Foreground(TextDim).Italic(true),
}

// ForActivity returns the label style of a slot activity.
func ForActivity(a schedule.Activity) lipgloss.Style {
	if s, ok := activityStyles[a]; ok {
		return s
	}
	return Body
}
