// Package screen defines what the plan browser shows.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyplan/internal/ui/layout"
)

// Screen defines the interface for all browser screens.
type Screen interface {
	// Init returns an initial command when the screen is first pushed.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title is the screen's breadcrumb entry.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
