package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/studyplan/internal/friction"
	"github.com/abhisek/studyplan/internal/schedule"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(context.Background(), "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{tableProfiles, tableScheduleRuns, tableLLMEvents, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("file:x.db")
	if !strings.HasPrefix(got, "file:x.db?_pragma=") {
		t.Errorf("withPragmas() = %q", got)
	}
	got = withPragmas("file:x.db?mode=memory")
	if !strings.HasPrefix(got, "file:x.db?mode=memory&_pragma=") {
		t.Errorf("withPragmas() = %q", got)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != i {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}
}

func TestProfile_GetMissingReturnsFresh(t *testing.T) {
	s := openTestStore(t)

	p, err := s.Profiles().Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != "alice" || p.Version != 0 {
		t.Errorf("got %+v, want fresh profile", p)
	}
	if p.History == nil {
		t.Error("expected non-nil history map")
	}
}

func TestProfile_SaveAndReload(t *testing.T) {
	s := openTestStore(t)
	repo := s.Profiles()
	ctx := context.Background()

	p := &Profile{
		ID:       "alice",
		Friction: friction.Profile{Overrun: 0.3, QuizError: 1.7, RevisionFreq: 0.1},
		History:  map[string]string{"alg-1": "2025-01-06"},
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.Version != 1 {
		t.Errorf("version = %d, want 1", p.Version)
	}

	got, err := repo.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 1 {
		t.Errorf("stored version = %d, want 1", got.Version)
	}
	if got.Friction.QuizError != 1 {
		t.Errorf("quiz error = %v, want clamped 1", got.Friction.QuizError)
	}
	if got.History["alg-1"] != "2025-01-06" {
		t.Errorf("history = %v", got.History)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}

	got.Friction.Overrun = 0.5
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("version = %d, want 2", got.Version)
	}
}

func TestProfile_StaleWrite(t *testing.T) {
	s := openTestStore(t)
	repo := s.Profiles()
	ctx := context.Background()

	if err := repo.Save(ctx, &Profile{ID: "bob"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	a, _ := repo.Get(ctx, "bob")
	b, _ := repo.Get(ctx, "bob")

	a.Friction.Overrun = 0.4
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("first writer: %v", err)
	}
	b.Friction.Overrun = 0.9
	if err := repo.Save(ctx, b); !errors.Is(err, ErrStaleProfile) {
		t.Fatalf("second writer err = %v, want ErrStaleProfile", err)
	}

	// A second insert of a brand-new profile is stale too.
	if err := repo.Save(ctx, &Profile{ID: "bob"}); !errors.Is(err, ErrStaleProfile) {
		t.Fatalf("duplicate insert err = %v, want ErrStaleProfile", err)
	}

	got, _ := repo.Get(ctx, "bob")
	if got.Friction.Overrun != 0.4 {
		t.Errorf("overrun = %v, want first writer's 0.4", got.Friction.Overrun)
	}
}

func TestApplyOutcomes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	predicted, actual := 1.0, 2.0

	p, err := ApplyOutcomes(ctx, s.Profiles(), "carol",
		[]friction.Outcome{{PredictedHours: &predicted, ActualHours: &actual}},
		map[string]string{"c1": "2025-02-01"},
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.Friction.Overrun != 0.08 {
		t.Errorf("overrun = %v, want 0.08", p.Friction.Overrun)
	}
	if p.History["c1"] != "2025-02-01" || p.Version != 1 {
		t.Errorf("got %+v", p)
	}
}

// staleOnce loses the first save race.
type staleOnce struct {
	ProfileRepo
	tripped bool
}

func (r *staleOnce) Save(ctx context.Context, p *Profile) error {
	if !r.tripped {
		r.tripped = true
		// Another writer lands first.
		other, err := r.ProfileRepo.Get(ctx, p.ID)
		if err != nil {
			return err
		}
		other.Friction.RevisionFreq = 0.5
		if err := r.ProfileRepo.Save(ctx, other); err != nil {
			return err
		}
		return ErrStaleProfile
	}
	return r.ProfileRepo.Save(ctx, p)
}

func TestApplyOutcomes_RetriesStaleWrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := &staleOnce{ProfileRepo: s.Profiles()}

	p, err := ApplyOutcomes(ctx, repo, "dave", []friction.Outcome{{Postponed: true}}, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.Version != 2 {
		t.Errorf("version = %d, want 2", p.Version)
	}
	if p.Friction.RevisionFreq != 0.5 || p.Friction.Overrun != 0.05 {
		t.Errorf("friction = %+v, want both writers applied", p.Friction)
	}
}

func sampleResult(t *testing.T) *schedule.Result {
	t.Helper()
	in := schedule.Input{
		Chapters: []schedule.Chapter{{ID: "c1", Subject: "math", EstimatedHours: 2, BaseDifficulty: 0.5, QuestionDensity: 1}},
		Config:   schedule.DefaultConfig(),
	}
	in.Config.Today = "2025-01-06"
	in.Config.TargetCompletionDate = "2025-01-08"
	res, err := schedule.NewPlanner().Plan(in)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return res
}

func TestRuns_SaveGetList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Runs()
	ctx := context.Background()

	first := &ScheduleRun{ProfileID: "alice", Result: sampleResult(t)}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID == "" || first.Sequence == 0 {
		t.Fatalf("expected id and sequence to be assigned, got %+v", first)
	}
	if first.StartDate != "2025-01-06" || first.EndDate != "2025-01-08" {
		t.Errorf("dates = %s..%s", first.StartDate, first.EndDate)
	}

	second := &ScheduleRun{ProfileID: "alice", Result: sampleResult(t)}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}
	if err := repo.Save(ctx, &ScheduleRun{ProfileID: "bob", Result: sampleResult(t)}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	got, err := repo.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Result.Days) != 3 {
		t.Errorf("days = %d, want 3", len(got.Result.Days))
	}
	if got.Result.Summary.Coverage != first.Coverage {
		t.Errorf("coverage = %v, want %v", got.Result.Summary.Coverage, first.Coverage)
	}

	list, err := repo.List(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("list = %+v, want newest first", list)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing err = %v, want ErrNotFound", err)
	}
}

func TestEvents_AppendAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "narration", InputTokens: 100, OutputTokens: 20, Success: true, CostUSD: 0.01},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "narration", InputTokens: 50, Success: false, ErrorMessage: "boom"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "narration", InputTokens: 10, OutputTokens: 5, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err := repo.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("usage rows = %d, want 2", len(usage))
	}
	claude := usage[0]
	if claude.Model != "claude-haiku-4-5" || claude.Calls != 2 || claude.Failures != 1 || claude.InputTokens != 150 {
		t.Errorf("claude usage = %+v", claude)
	}
	if usage[1].Model != "gpt-4o-mini" || usage[1].OutputTokens != 5 {
		t.Errorf("openai usage = %+v", usage[1])
	}
}
