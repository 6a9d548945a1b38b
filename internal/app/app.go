// Package app ties the planner, the profile store and narration together.
// Both the CLI and the HTTP server go through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyplan/internal/friction"
	"github.com/abhisek/studyplan/internal/narration"
	"github.com/abhisek/studyplan/internal/planfile"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/store"
)

var (
	// ErrNoStore is returned when an operation needs persistence and the
	// App was built without a store.
	ErrNoStore = errors.New("app: no store configured")
	// ErrNoNarrator is returned when narration is requested but disabled.
	ErrNoNarrator = errors.New("app: narration is not enabled")
)

// Options wires an App. Every field is optional.
type Options struct {
	Profiles store.ProfileRepo
	Runs     store.RunRepo
	Narrator *narration.Service
	// Practice is used when an input carries no practice-paper settings.
	Practice schedule.PracticePaperConfig
	// Seed fixes the practice-paper random source. Zero seeds each run
	// from the clock.
	Seed   uint64
	Logger *zap.Logger
	Now    func() time.Time
}

// App runs planning requests.
type App struct {
	profiles store.ProfileRepo
	runs     store.RunRepo
	narrator *narration.Service
	practice schedule.PracticePaperConfig
	seed     uint64
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an App.
func New(opts Options) *App {
	a := &App{
		profiles: opts.Profiles,
		runs:     opts.Runs,
		narrator: opts.Narrator,
		practice: opts.Practice,
		seed:     opts.Seed,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// CanNarrate reports whether narration is wired.
func (a *App) CanNarrate() bool { return a.narrator != nil }

// PlanRequest is one planning call.
type PlanRequest struct {
	Input schedule.Input
	// ProfileID selects the stored profile; empty means the default one.
	ProfileID string
	// UseProfile fills friction and history from the stored profile where
	// the input leaves them empty.
	UseProfile bool
	// Save archives the result.
	Save    bool
	Narrate bool
}

// PlanResult is the outcome of Plan.
type PlanResult struct {
	Result *schedule.Result
	// RunID is set when the result was saved.
	RunID     string
	Narration *narration.Report
	// ProfileVersion is the version of the profile that was merged in, or
	// zero.
	ProfileVersion int64
}

// Plan builds a schedule for req. Narration failures never fail the call.
func (a *App) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	if req.Narrate && a.narrator == nil {
		return nil, ErrNoNarrator
	}
	if (req.Save || req.UseProfile) && (a.profiles == nil || a.runs == nil) {
		return nil, ErrNoStore
	}
	profileID := req.ProfileID
	if profileID == "" {
		profileID = store.DefaultProfileID
	}

	in := req.Input
	out := &PlanResult{}
	if req.UseProfile {
		p, err := a.profiles.Get(ctx, profileID)
		if err != nil {
			return nil, fmt.Errorf("load profile %s: %w", profileID, err)
		}
		mergeProfile(&in, p)
		out.ProfileVersion = p.Version
	}
	if in.Config.PracticePaper == (schedule.PracticePaperConfig{}) {
		in.Config.PracticePaper = a.practice
	}

	res, err := a.planner().Plan(in)
	if err != nil {
		return nil, err
	}
	out.Result = res

	if req.Narrate {
		rep := a.narrator.Narrate(ctx, res)
		out.Narration = &rep
	}

	if req.Save {
		run := &store.ScheduleRun{ProfileID: profileID, Result: res}
		if err := a.runs.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("archive schedule: %w", err)
		}
		out.RunID = run.ID
		a.logger.Info("schedule archived",
			zap.String("run_id", run.ID),
			zap.String("profile_id", profileID),
			zap.Float64("coverage", res.Summary.Coverage),
		)
	}
	return out, nil
}

// planner builds a planner per call: the random source is not safe for
// concurrent use.
func (a *App) planner() *schedule.Planner {
	seed := a.seed
	if seed == 0 {
		seed = uint64(a.now().UnixNano())
	}
	return schedule.NewPlanner(
		schedule.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		schedule.WithLogger(a.logger),
		schedule.WithClock(a.now),
	)
}

// mergeProfile copies stored friction into in when the input has none and
// adds stored history entries the input does not override.
func mergeProfile(in *schedule.Input, p *store.Profile) {
	if in.Friction == (friction.Profile{}) {
		in.Friction = p.Friction
	}
	if len(p.History) == 0 {
		return
	}
	merged := make(map[string]string, len(p.History)+len(in.Config.History))
	for k, v := range p.History {
		merged[k] = v
	}
	for k, v := range in.Config.History {
		merged[k] = v
	}
	in.Config.History = merged
}

// Profile returns the stored profile, or a fresh one.
func (a *App) Profile(ctx context.Context, id string) (*store.Profile, error) {
	if a.profiles == nil {
		return nil, ErrNoStore
	}
	if id == "" {
		id = store.DefaultProfileID
	}
	return a.profiles.Get(ctx, id)
}

// RecordOutcomes folds an outcome report into a stored profile. The
// report's ProfileID wins over id when set.
func (a *App) RecordOutcomes(ctx context.Context, id string, rep *planfile.Outcomes) (*store.Profile, error) {
	if a.profiles == nil {
		return nil, ErrNoStore
	}
	if rep.ProfileID != "" {
		id = rep.ProfileID
	}
	if id == "" {
		id = store.DefaultProfileID
	}
	p, err := store.ApplyOutcomes(ctx, a.profiles, id, rep.Outcomes, rep.History)
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", id, err)
	}
	a.logger.Info("friction updated",
		zap.String("profile_id", id),
		zap.Int("outcomes", len(rep.Outcomes)),
		zap.Int64("version", p.Version),
		zap.Float64("overrun", p.Friction.Overrun),
		zap.Float64("quiz_error", p.Friction.QuizError),
		zap.Float64("revision_freq", p.Friction.RevisionFreq),
	)
	return p, nil
}

// Run returns an archived schedule.
func (a *App) Run(ctx context.Context, id string) (*store.ScheduleRun, error) {
	if a.runs == nil {
		return nil, ErrNoStore
	}
	return a.runs.Get(ctx, id)
}

// Runs lists archived schedules for a profile, newest first.
func (a *App) Runs(ctx context.Context, profileID string, limit int) ([]store.ScheduleRun, error) {
	if a.runs == nil {
		return nil, ErrNoStore
	}
	if profileID == "" {
		profileID = store.DefaultProfileID
	}
	return a.runs.List(ctx, profileID, limit)
}
