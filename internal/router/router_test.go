package router

import (
	"slices"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyplan/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushMsg(t *testing.T) {
	r := New(&stubScreen{title: "Plan"})

	day := &stubScreen{title: "Mon 2025-01-06"}
	r.Update(Push(day)())

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active() != day {
		t.Errorf("expected day screen active, got %q", r.Active().Title())
	}
	if !day.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
	if got := r.Breadcrumb(); !slices.Equal(got, []string{"Plan", "Mon 2025-01-06"}) {
		t.Errorf("breadcrumb = %v", got)
	}
	if got := r.View(80, 24); got != "Mon 2025-01-06" {
		t.Errorf("view = %q", got)
	}
}

func TestPopMsg(t *testing.T) {
	root := &stubScreen{title: "Plan"}
	r := New(root)
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "Summary"}})

	r.Update(Pop()())
	if r.Depth() != 1 || r.Active() != root {
		t.Fatalf("expected root after pop, depth %d", r.Depth())
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 {
		t.Errorf("expected root to stay, got depth %d", r.Depth())
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	root := &stubScreen{title: "Runs"}
	r := New(root)
	if r.Init() != nil || !root.initRan {
		t.Fatal("expected root Init to run")
	}

	msg := tea.KeyPressMsg{Code: tea.KeyDown}
	r.Update(msg)
	if len(root.got) != 1 || root.got[0] != msg {
		t.Errorf("root got %v", root.got)
	}
}
