package runs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyplan/internal/caldate"
	"github.com/abhisek/studyplan/internal/router"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/screens/days"
	"github.com/abhisek/studyplan/internal/store"
)

type fakeSource struct {
	runs    []store.ScheduleRun
	listErr error
	getErr  error
	gotID   string
	gotProf string
}

func (f *fakeSource) Runs(_ context.Context, profileID string, _ int) ([]store.ScheduleRun, error) {
	f.gotProf = profileID
	return f.runs, f.listErr
}

func (f *fakeSource) Run(_ context.Context, id string) (*store.ScheduleRun, error) {
	f.gotID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, _ := caldate.Parse("2025-01-06")
	return &store.ScheduleRun{ID: id, Result: &schedule.Result{Days: []schedule.Day{{Date: d}}}}, nil
}

func sampleRuns() []store.ScheduleRun {
	created := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	return []store.ScheduleRun{
		{ID: "0f9a4c1e-aaaa", CreatedAt: created, StartDate: "2025-01-06", EndDate: "2025-02-06", Coverage: 0.9, PlannedHours: 40},
		{ID: "7b21d0c3-bbbb", CreatedAt: created.Add(-time.Hour), StartDate: "2025-01-05", EndDate: "2025-02-05", Coverage: 0.5, PlannedHours: 20},
	}
}

// load runs Init and feeds the result back into s.
func load(t *testing.T, s *RunsScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected Init to return a load command")
	}
	s.Update(cmd())
}

func TestRunsScreen_Loading(t *testing.T) {
	s := New(&fakeSource{}, "alice", 10, days.Options{})
	if view := s.View(100, 20); !strings.Contains(view, "Loading runs...") {
		t.Errorf("view = %q", view)
	}
	if s.Title() != "Runs" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestRunsScreen_ListsRuns(t *testing.T) {
	src := &fakeSource{runs: sampleRuns()}
	s := New(src, "alice", 10, days.Options{})
	load(t, s)

	if src.gotProf != "alice" {
		t.Errorf("listed profile %q", src.gotProf)
	}
	view := s.View(100, 20)
	for _, want := range []string{"0f9a4c1e", "7b21d0c3", "2025-01-06..2025-02-06", "90%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRunsScreen_EnterOpensPlan(t *testing.T) {
	src := &fakeSource{runs: sampleRuns()}
	s := New(src, "alice", 10, days.Options{})
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a load command on Enter")
	}
	_, cmd = s.Update(cmd())
	if src.gotID != "7b21d0c3-bbbb" {
		t.Errorf("loaded %q", src.gotID)
	}
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Run 7b21d0c3" {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
}

func TestRunsScreen_Errors(t *testing.T) {
	s := New(&fakeSource{listErr: errors.New("disk gone")}, "alice", 10, days.Options{})
	load(t, s)
	if view := s.View(100, 20); !strings.Contains(view, "Error: disk gone") {
		t.Errorf("view = %q", view)
	}

	src := &fakeSource{runs: sampleRuns(), getErr: store.ErrNotFound}
	s = New(src, "alice", 10, days.Options{})
	load(t, s)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = s.Update(cmd())
	if cmd != nil {
		t.Error("expected no push after a failed load")
	}
	if view := s.View(100, 20); !strings.Contains(view, store.ErrNotFound.Error()) {
		t.Errorf("view should show the load error:\n%s", view)
	}
}

func TestRunsScreen_Empty(t *testing.T) {
	s := New(&fakeSource{}, "alice", 10, days.Options{})
	load(t, s)
	if view := s.View(100, 20); !strings.Contains(view, "No archived plans.") {
		t.Errorf("view = %q", view)
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command without runs")
	}
}
