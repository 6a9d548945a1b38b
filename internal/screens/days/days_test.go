package days

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyplan/internal/caldate"
	"github.com/abhisek/studyplan/internal/router"
	"github.com/abhisek/studyplan/internal/schedule"
)

func testResult(t *testing.T, n int) *schedule.Result {
	t.Helper()
	start, err := caldate.Parse("2025-01-06")
	if err != nil {
		t.Fatal(err)
	}
	res := &schedule.Result{Summary: schedule.Summary{Coverage: 0.8, PlannedHours: 3, Mode: schedule.ModeAssisted}}
	for i := 0; i < n; i++ {
		day := schedule.Day{Date: start.AddDays(i), Slots: []schedule.Slot{}}
		// Every third day is empty.
		if i%3 != 2 {
			day.TotalHours = 1
			day.Slots = []schedule.Slot{
				{Start: 540, End: 600, ChapterID: "alg-1", Subject: "math", Activity: schedule.ActivityStudy, Reason: "exam soon"},
			}
		}
		res.Days = append(res.Days, day)
	}
	return res
}

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func text(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func pushed(t *testing.T, cmd tea.Cmd) router.PushScreenMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg
}

func TestDaysScreen_TitleAndHints(t *testing.T) {
	s := New(testResult(t, 3), "Plan", Options{})
	if s.Title() != "Plan" {
		t.Errorf("Title = %q", s.Title())
	}
	if len(s.KeyHints()) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(s.KeyHints()))
	}
}

func TestDaysScreen_Navigation(t *testing.T) {
	s := New(testResult(t, 10), "Plan", Options{})

	s.Update(key(tea.KeyUp))
	if day, _ := s.Selected(); day.Date.String() != "2025-01-06" {
		t.Errorf("up at top moved to %s", day.Date)
	}
	s.Update(key(tea.KeyDown))
	s.Update(text('j'))
	if day, _ := s.Selected(); day.Date.String() != "2025-01-08" {
		t.Errorf("selected %s, want 2025-01-08", day.Date)
	}
	s.Update(key(tea.KeyEnd))
	if day, _ := s.Selected(); day.Date.String() != "2025-01-15" {
		t.Errorf("end selected %s", day.Date)
	}
	s.Update(key(tea.KeyDown))
	if day, _ := s.Selected(); day.Date.String() != "2025-01-15" {
		t.Errorf("down at bottom moved to %s", day.Date)
	}
	s.Update(text('g'))
	if day, _ := s.Selected(); day.Date.String() != "2025-01-06" {
		t.Errorf("g selected %s", day.Date)
	}
}

func TestDaysScreen_SkipEmpty(t *testing.T) {
	s := New(testResult(t, 6), "Plan", Options{SkipEmpty: true})
	s.Update(key(tea.KeyDown))
	s.Update(key(tea.KeyDown))
	if day, _ := s.Selected(); day.Date.String() != "2025-01-09" {
		t.Errorf("selected %s, want 2025-01-09 (2025-01-08 is empty)", day.Date)
	}
	if view := s.View(100, 20); !strings.Contains(view, "4 day(s)") {
		t.Errorf("view header missing day count:\n%s", view)
	}
}

func TestDaysScreen_EnterOpensDay(t *testing.T) {
	s := New(testResult(t, 3), "Plan", Options{})
	s.Update(key(tea.KeyDown))

	_, cmd := s.Update(key(tea.KeyEnter))
	msg := pushed(t, cmd)
	if msg.Screen.Title() != "Tue 2025-01-07" {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
	if view := msg.Screen.View(100, 20); !strings.Contains(view, "math/alg-1") {
		t.Errorf("day view missing slot:\n%s", view)
	}
}

func TestDaysScreen_SummaryKey(t *testing.T) {
	s := New(testResult(t, 3), "Plan", Options{})
	_, cmd := s.Update(text('s'))
	msg := pushed(t, cmd)
	if msg.Screen.Title() != "Summary" {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
	if view := msg.Screen.View(100, 20); !strings.Contains(view, "mode assisted") {
		t.Errorf("summary view:\n%s", view)
	}
}

func TestDaysScreen_ViewScrolls(t *testing.T) {
	s := New(testResult(t, 30), "Plan", Options{})

	view := s.View(100, 7)
	if !strings.Contains(view, "2025-01-06") || strings.Contains(view, "2025-02-04") {
		t.Errorf("initial view should show the first days only:\n%s", view)
	}

	s.Update(key(tea.KeyEnd))
	view = s.View(100, 7)
	if strings.Contains(view, "2025-01-06") || !strings.Contains(view, "2025-02-04") {
		t.Errorf("view after end should show the last days:\n%s", view)
	}
	// Header line, blank line, then five rows.
	if got := strings.Count(view, "\n") + 1; got != 7 {
		t.Errorf("view has %d lines, want 7", got)
	}
}

func TestDaysScreen_Empty(t *testing.T) {
	s := New(&schedule.Result{}, "Plan", Options{})
	if _, ok := s.Selected(); ok {
		t.Error("expected no selection")
	}
	_, cmd := s.Update(key(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command on Enter without days")
	}
	if view := s.View(80, 10); !strings.Contains(view, "No days to show.") {
		t.Errorf("view = %q", view)
	}
}
