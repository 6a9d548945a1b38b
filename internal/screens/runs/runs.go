// Package runs is the browser screen listing archived plans.
package runs

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/router"
	"github.com/abhisek/studyplan/internal/screen"
	"github.com/abhisek/studyplan/internal/screens/days"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/ui/layout"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

// Source loads archived runs. *app.App satisfies it.
type Source interface {
	Runs(ctx context.Context, profileID string, limit int) ([]store.ScheduleRun, error)
	Run(ctx context.Context, id string) (*store.ScheduleRun, error)
}

type runsLoadedMsg struct {
	Runs []store.ScheduleRun
	Err  error
}

type runLoadedMsg struct {
	Run *store.ScheduleRun
	Err error
}

// RunsScreen lists a profile's archived plans. Enter opens one.
type RunsScreen struct {
	src       Source
	profileID string
	limit     int
	opts      days.Options

	runs     []store.ScheduleRun
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*RunsScreen)(nil)
var _ screen.KeyHintProvider = (*RunsScreen)(nil)

// New creates a RunsScreen.
func New(src Source, profileID string, limit int, opts days.Options) *RunsScreen {
	return &RunsScreen{src: src, profileID: profileID, limit: limit, opts: opts}
}

func (s *RunsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		runs, err := s.src.Runs(context.Background(), s.profileID, s.limit)
		return runsLoadedMsg{Runs: runs, Err: err}
	}
}

func (s *RunsScreen) Title() string { return "Runs" }

func (s *RunsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open plan"},
	}
}

func (s *RunsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.runs = msg.Runs
		}
		s.loaded = true
		return s, nil

	case runLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		return s, router.Push(days.New(msg.Run.Result, "Run "+shortID(msg.Run.ID), s.opts))

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.runs)-1 {
				s.selected++
			}
		case "enter":
			if len(s.runs) == 0 {
				return s, nil
			}
			id := s.runs[s.selected].ID
			return s, func() tea.Msg {
				run, err := s.src.Run(context.Background(), id)
				return runLoadedMsg{Run: run, Err: err}
			}
		}
	}
	return s, nil
}

func (s *RunsScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" && len(s.runs) == 0 {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading runs...")
	}
	if len(s.runs) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No archived plans. Run `studyplan plan --save` first.")
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %-8s  %-16s  %-23s  %8s  %7s",
		"ID", "Created", "Dates", "Coverage", "Hours")))
	b.WriteString("\n")

	// Keep the selection in view; runs lists are short.
	first := max(0, s.selected-(height-3)+1)
	for i := first; i < len(s.runs) && i-first < height-2; i++ {
		r := s.runs[i]
		line := fmt.Sprintf("%-8s  %-16s  %-23s  %7.0f%%  %7.2f",
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.StartDate+".."+r.EndDate,
			r.Coverage*100,
			r.PlannedHours,
		)
		if i == s.selected {
			b.WriteString(theme.Title.Render("> " + line))
		} else {
			b.WriteString(theme.Body.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  " + s.errMsg))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
