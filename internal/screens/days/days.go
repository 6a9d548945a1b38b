// Package days is the browser screen listing the days of one plan.
package days

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/router"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/screens/pager"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/planview"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

// Options controls which days are listed and how a day is shown.
type Options struct {
	SkipEmpty  bool
	ShowBreaks bool
}

// DaysScreen lists a plan's days. Enter opens a day, s opens the summary.
type DaysScreen struct {
	res   *schedule.Result
	title string
	opts  Options
	// days holds indices into res.Days that pass the filter.
	days     []int
	selected int
	offset   int
	// rows is the list height seen by the last View.
	rows int
}

var _ screen.Screen = (*DaysScreen)(nil)
var _ screen.KeyHintProvider = (*DaysScreen)(nil)

// New creates a DaysScreen for res.
func New(res *schedule.Result, title string, opts Options) *DaysScreen {
	s := &DaysScreen{res: res, title: title, opts: opts, rows: 10}
	if res != nil {
		for i, d := range res.Days {
			if opts.SkipEmpty && planview.Empty(d) {
				continue
			}
			s.days = append(s.days, i)
		}
	}
	return s
}

func (s *DaysScreen) Init() tea.Cmd { return nil }

func (s *DaysScreen) Title() string { return s.title }

func (s *DaysScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open day"},
		{Key: "s", Description: "Summary"},
	}
}

// Selected returns the selected day, or false when nothing is listed.
func (s *DaysScreen) Selected() (schedule.Day, bool) {
	if len(s.days) == 0 {
		return schedule.Day{}, false
	}
	return s.res.Days[s.days[s.selected]], true
}

func (s *DaysScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch km.String() {
	case "up", "k":
		s.move(-1)
	case "down", "j":
		s.move(1)
	case "pgup":
		s.move(-s.rows)
	case "pgdown":
		s.move(s.rows)
	case "home", "g":
		s.move(-len(s.days))
	case "end", "G":
		s.move(len(s.days))
	case "enter":
		if day, ok := s.Selected(); ok {
			title := fmt.Sprintf("%s %s", day.Date.Time().Format("Mon"), day.Date)
			body := planview.RenderDay(day, planview.Options{ShowBreaks: s.opts.ShowBreaks})
			return s, router.Push(pager.New(title, body))
		}
	case "s":
		if s.res != nil {
			return s, router.Push(pager.New("Summary", planview.RenderSummary(s.res.Summary, planview.Options{})))
		}
	}
	return s, nil
}

func (s *DaysScreen) move(delta int) {
	if len(s.days) == 0 {
		return
	}
	s.selected = min(max(s.selected+delta, 0), len(s.days)-1)
}

// adjustScroll keeps the selection inside the visible rows.
func (s *DaysScreen) adjustScroll() {
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+s.rows {
		s.offset = s.selected - s.rows + 1
	}
	s.offset = max(0, min(s.offset, len(s.days)-s.rows))
}

func (s *DaysScreen) View(width, height int) string {
	if len(s.days) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No days to show.")
	}

	var b strings.Builder
	sum := s.res.Summary
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf(
		"  %d day(s)  coverage %d%%  planned %.2fh  at risk %d",
		len(s.days), int(sum.Coverage*100+0.5), sum.PlannedHours, len(sum.AtRisk),
	)))
	b.WriteString("\n\n")

	s.rows = max(height-2, 1)
	s.adjustScroll()
	end := min(s.offset+s.rows, len(s.days))
	for i := s.offset; i < end; i++ {
		line := planview.DayLine(s.res.Days[s.days[i]], planview.Options{})
		if i == s.selected {
			b.WriteString(theme.Title.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
