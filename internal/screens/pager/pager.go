// Package pager is a scrollable text screen for one day or a summary.
package pager

import (
	"fmt"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

// PagerScreen shows pre-rendered text in a viewport.
type PagerScreen struct {
	title string
	vp    viewport.Model
}

var _ screen.Screen = (*PagerScreen)(nil)
var _ screen.KeyHintProvider = (*PagerScreen)(nil)

// New creates a PagerScreen.
func New(title, content string) *PagerScreen {
	vp := viewport.New()
	vp.SetContent(content)
	return &PagerScreen{title: title, vp: vp}
}

func (s *PagerScreen) Init() tea.Cmd { return nil }

func (s *PagerScreen) Title() string { return s.title }

func (s *PagerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
	}
}

// Update forwards scrolling keys to the viewport.
func (s *PagerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

// View sizes the viewport to the space it is given. The last row shows
// the scroll position when the text overflows.
func (s *PagerScreen) View(width, height int) string {
	s.vp.SetWidth(width)
	if s.vp.TotalLineCount() <= height {
		s.vp.SetHeight(height)
		return s.vp.View()
	}
	s.vp.SetHeight(max(height-1, 1))
	pos := theme.Hint.Render(fmt.Sprintf("  %3.0f%%", s.vp.ScrollPercent()*100))
	return s.vp.View() + "\n" + pos
}

// YOffset returns the first visible line.
func (s *PagerScreen) YOffset() int { return s.vp.YOffset() }
