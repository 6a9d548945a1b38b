package schedule

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyplan/internal/caldate"
	"github.com/abhisek/studyplan/internal/friction"
)

const (
	// MaxChapters is the exclusive upper bound on chapters per run.
	MaxChapters = 500
	// AtRiskLimit caps the at-risk list in the summary.
	AtRiskLimit = 50
	// MaxHorizonDays bounds how far ahead a run plans.
	MaxHorizonDays = 366

	remainingEpsilon = 1e-6

	practicePrefix = "practice-paper:"
)

// Advisory notes attached to days when friction crosses a threshold.
const (
	AdviceContextSwitching = "Frequent overruns: stick to fewer chapters per sitting and reduce context switching."
	AdviceWorkedExamples   = "High quiz error rate: add worked examples before attempting fresh questions."
	WarningDeferred        = "No usable study time today; deferring work to tomorrow."
)

// Friction thresholds for advisories.
const (
	overrunAdviceThreshold = 0.2
	quizAdviceThreshold    = 0.25
)

// Planner builds study schedules. It holds no per-run state and may be
// shared.
type Planner struct {
	rng    *rand.Rand
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithRand supplies the random source used for practice-paper injection.
// Without one, injection is disabled and output is fully deterministic.
func WithRand(r *rand.Rand) Option {
	return func(p *Planner) { p.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock sets the clock used when the config carries no valid "today".
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPlanner creates a Planner.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan runs the scheduler over every day from today through the horizon.
// The only error it returns is *CapacityError.
func (p *Planner) Plan(in Input) (*Result, error) {
	run, err := p.Prepare(in)
	if err != nil {
		return nil, err
	}

	st := run.Initial()
	days := make([]Day, 0, run.End()-run.Start()+1)
	for d := run.Start(); d <= run.End(); d++ {
		var day Day
		st, day = run.Step(st, d)
		days = append(days, day)
	}

	summary := run.Summarize(st)
	p.logger.Debug("schedule planned",
		zap.Int("days", len(days)),
		zap.Float64("coverage", summary.Coverage),
		zap.Int("at_risk", len(summary.AtRisk)),
	)
	return &Result{Days: days, Summary: summary}, nil
}

// State is the allocation state threaded from one day to the next.
type State struct {
	// Remaining is the outstanding work per chapter ID, in hours.
	Remaining map[string]float64
	// History maps chapter ID to the last day it was studied.
	History map[string]string
	// Planned is the total hours deducted so far.
	Planned float64
}

func (s State) clone() State {
	c := State{
		Remaining: make(map[string]float64, len(s.Remaining)),
		History:   make(map[string]string, len(s.History)),
		Planned:   s.Planned,
	}
	for k, v := range s.Remaining {
		c.Remaining[k] = v
	}
	for k, v := range s.History {
		c.History[k] = v
	}
	return c
}

// Run is a validated, normalised planning run.
type Run struct {
	chapters []Chapter
	exams    map[string][]DatedExam
	subjects []string
	friction friction.Profile
	blockers []Blocker
	cfg      Config

	today    caldate.Date
	fallback caldate.Date
	horizon  caldate.Date
	total    float64

	rng    *rand.Rand
	logger *zap.Logger
}

// Prepare validates and normalises the input. It fails with *CapacityError
// when there are MaxChapters or more chapters.
func (p *Planner) Prepare(in Input) (*Run, error) {
	if len(in.Chapters) >= MaxChapters {
		return nil, &CapacityError{Chapters: len(in.Chapters), Limit: MaxChapters}
	}

	cfg := in.Config.normalized()
	r := &Run{
		exams:    make(map[string][]DatedExam),
		friction: in.Friction.Normalized(),
		blockers: in.Blockers,
		cfg:      cfg,
		logger:   p.logger,
	}
	if !cfg.PracticePaper.Disabled {
		r.rng = p.rng
	}

	var ok bool
	if r.today, ok = caldate.ParseOK(cfg.Today); !ok {
		if cfg.Today != "" {
			p.logger.Warn("invalid today; using clock", zap.String("today", cfg.Today))
		}
		r.today = caldate.FromTime(p.now())
	}
	if r.fallback, ok = caldate.ParseOK(cfg.TargetCompletionDate); !ok {
		r.fallback = r.today.AddDays(DefaultHorizonDays)
	}

	seen := make(map[string]bool, len(in.Chapters))
	for _, ch := range in.Chapters {
		if seen[ch.ID] {
			p.logger.Warn("duplicate chapter ignored", zap.String("chapter_id", ch.ID))
			continue
		}
		seen[ch.ID] = true
		ch = ch.normalized()
		r.chapters = append(r.chapters, ch)
		r.total += ch.EstimatedHours
	}

	r.horizon = r.fallback
	for _, e := range in.Exams {
		day, ok := caldate.ParseOK(e.Date)
		if !ok {
			p.logger.Warn("exam with invalid date ignored", zap.String("subject", e.Subject), zap.String("date", e.Date))
			continue
		}
		r.exams[e.Subject] = append(r.exams[e.Subject], DatedExam{Exam: e, Day: day})
		if day > r.horizon {
			r.horizon = day
		}
	}
	for subject, list := range r.exams {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Day < list[j].Day })
		r.subjects = append(r.subjects, subject)
	}
	sort.Strings(r.subjects)

	if r.horizon < r.today {
		r.horizon = r.today
	}
	if limit := r.today.AddDays(MaxHorizonDays); r.horizon > limit {
		r.horizon = limit
	}
	return r, nil
}

// Start returns the first planned day.
func (r *Run) Start() caldate.Date { return r.today }

// End returns the horizon, the last planned day.
func (r *Run) End() caldate.Date { return r.horizon }

// Config returns the normalised config of the run.
func (r *Run) Config() Config { return r.cfg }

// Initial returns the state before the first day.
func (r *Run) Initial() State {
	st := State{
		Remaining: make(map[string]float64, len(r.chapters)),
		History:   make(map[string]string, len(r.cfg.History)),
	}
	for _, ch := range r.chapters {
		st.Remaining[ch.ID] = ch.EstimatedHours
	}
	for k, v := range r.cfg.History {
		st.History[k] = v
	}
	return st
}

// nextExam returns the nearest exam for subject on or after day.
func (r *Run) nextExam(subject string, day caldate.Date) *DatedExam {
	for i := range r.exams[subject] {
		if e := &r.exams[subject][i]; e.Day >= day {
			return e
		}
	}
	return nil
}

func (r *Run) completion(st State) float64 {
	if r.total <= 0 {
		return 0
	}
	left := 0.0
	for _, v := range st.Remaining {
		left += v
	}
	return clamp(1-left/r.total, 0, 1)
}

// Step plans a single day. It never modifies st; the returned state
// reflects the work scheduled on day. Without a random source Step is a pure
// function of its arguments.
func (r *Run) Step(st State, day caldate.Date) (State, Day) {
	cfg := r.cfg
	out := Day{Date: day, Slots: []Slot{}}

	slots, err := BuildSlots(day, r.blockers, cfg.DayStart, cfg.DayEnd, cfg.SlotMinutes, cfg.MiniSlotMinutes)
	if err != nil {
		r.logger.Debug("day skipped", zap.Stringer("date", day), zap.Error(err))
		out.Warning = fmt.Sprintf("Day not scheduled: %v.", err)
		return st, out
	}

	capMinutes := cfg.DailyMaxHours * 60
	var usable []TimeSlot
	used := 0
	for _, ts := range slots {
		if float64(used+ts.Minutes()) > capMinutes {
			break
		}
		used += ts.Minutes()
		usable = append(usable, ts)
	}
	if len(usable) == 0 {
		out.Warning = WarningDeferred
		return st, out
	}

	st = st.clone()
	cands := r.score(st, day)
	cands = append(cands, r.practicePapers(st, day, len(usable))...)
	sortCandidates(cands)

	if len(cands) == 0 {
		out.Slots = r.idleSlots(usable)
	} else {
		allocate(cands, capMinutes, cfg.SlotMinutes)
		out.Slots = r.fill(&st, day, usable, cands)
	}

	if r.friction.Overrun >= overrunAdviceThreshold {
		out.Advisories = append(out.Advisories, AdviceContextSwitching)
	}
	if r.friction.QuizError >= quizAdviceThreshold {
		out.Advisories = append(out.Advisories, AdviceWorkedExamples)
	}

	minutes := 0
	for _, s := range out.Slots {
		switch s.Activity {
		case ActivityStudy, ActivityReview, ActivityMiniReview:
			minutes += s.Minutes()
		}
	}
	out.TotalHours = round(float64(minutes)/60, 2)
	return st, out
}

func (r *Run) score(st State, day caldate.Date) []*candidate {
	var cands []*candidate
	for _, ch := range r.chapters {
		remaining := st.Remaining[ch.ID]
		if remaining <= remainingEpsilon {
			continue
		}
		exam := r.nextExam(ch.Subject, day)
		priority, personal := Score(ScoreInput{
			Chapter:     ch,
			Exam:        exam,
			Today:       day,
			Fallback:    r.fallback,
			Remaining:   remaining,
			Friction:    r.friction,
			LastStudied: st.History[ch.ID],
			Dampener:    r.cfg.DateDampener,
			FocusWeight: r.cfg.FocusWeight,
		})
		if !(priority > 0) || math.IsInf(priority, 0) {
			continue
		}
		cands = append(cands, &candidate{
			chapter:   ch,
			exam:      exam,
			priority:  priority,
			personal:  personal,
			remaining: remaining,
		})
	}
	return cands
}

// practicePapers injects synthetic full-paper candidates once most of the
// plan is covered.
func (r *Run) practicePapers(st State, day caldate.Date, usable int) []*candidate {
	pp := r.cfg.PracticePaper
	if r.rng == nil || usable < 2 || r.completion(st) <= pp.CompletionThreshold {
		return nil
	}
	var out []*candidate
	for _, subject := range r.subjects {
		exam := r.nextExam(subject, day)
		if exam == nil || r.rng.Float64() >= pp.Probability {
			continue
		}
		out = append(out, &candidate{
			chapter: Chapter{
				ID:              practicePrefix + subject,
				Subject:         subject,
				EstimatedHours:  pp.Hours,
				BaseDifficulty:  0.5,
				ExamWeight:      1,
				QuestionDensity: 1,
			},
			exam:      exam,
			priority:  pp.Priority,
			personal:  PersonalDifficulty(0.5, r.friction),
			remaining: pp.Hours,
			practice:  true,
		})
	}
	return out
}

// idleSlots fills a day that has time but nothing left to study.
func (r *Run) idleSlots(usable []TimeSlot) []Slot {
	out := make([]Slot, 0, len(usable))
	for _, ts := range usable {
		s := Slot{Start: ts.Start, End: ts.End}
		if r.cfg.Mode == ModeBase {
			s.Activity = ActivityBuffer
			s.Reason = "Nothing left to study; unscheduled."
		} else {
			s.Activity = ActivityReview
			s.Cards = ReviewCards(1, r.cfg.MinReviews, ts.Minutes(), r.cfg.SlotMinutes)
			s.Reason = "General review of due cards."
		}
		out = append(out, s)
	}
	return out
}

// fill assigns each usable slot in chronological order.
func (r *Run) fill(st *State, day caldate.Date, usable []TimeSlot, cands []*candidate) []Slot {
	cfg := r.cfg
	out := make([]Slot, 0, len(usable))
	var prev, recent *candidate

	for _, ts := range usable {
		s := Slot{Start: ts.Start, End: ts.End}

		if ts.Mini {
			if cfg.Mode == ModeBase {
				s.Activity = ActivityBreak
				s.Reason = "Short gap; take a break."
				out = append(out, s)
				continue
			}
			target := recent
			if target == nil {
				target = cands[0]
			}
			s.ChapterID = target.chapter.ID
			s.Subject = target.chapter.Subject
			s.Activity = ActivityMiniReview
			s.Cards = ReviewCards(target.personal, cfg.MinReviews, ts.Minutes(), cfg.SlotMinutes)
			s.Reason = "Quick recall of " + target.chapter.ID + "."
			out = append(out, s)
			continue
		}

		c := pickNextCandidate(cands, prev)
		if c == nil {
			if cfg.Mode == ModeBase {
				s.Activity = ActivityBuffer
				s.Reason = "Allocations used up; buffer time."
			} else {
				top := cands[0]
				s.ChapterID = top.chapter.ID
				s.Subject = top.chapter.Subject
				s.Activity = ActivityReview
				s.Cards = ReviewCards(top.personal, cfg.MinReviews, ts.Minutes(), cfg.SlotMinutes)
				s.Reason = "Spaced review of " + top.chapter.ID + "."
			}
			out = append(out, s)
			continue
		}

		hours := float64(ts.Minutes()) / 60
		c.allocation -= float64(ts.Minutes())
		c.remaining = math.Max(c.remaining-hours, 0)
		if !c.practice {
			before := st.Remaining[c.chapter.ID]
			after := math.Max(before-hours, 0)
			st.Remaining[c.chapter.ID] = after
			st.Planned += before - after
			st.History[c.chapter.ID] = day.String()
		}
		prev, recent = c, c

		s.ChapterID = c.chapter.ID
		s.Subject = c.chapter.Subject
		s.Activity = ActivityStudy
		s.Reason = studyReason(c, day, r.fallback)
		out = append(out, s)
	}
	return out
}

func studyReason(c *candidate, day, fallback caldate.Date) string {
	if c.practice {
		return fmt.Sprintf("Timed practice paper for %s; exam in %d days.", c.chapter.Subject, day.DaysUntil(c.exam.Day))
	}
	if c.exam != nil {
		return fmt.Sprintf("Priority %.2f; %s exam in %d days.", c.priority, c.chapter.Subject, day.DaysUntil(c.exam.Day))
	}
	return fmt.Sprintf("Priority %.2f; target date in %d days.", c.priority, max(day.DaysUntil(fallback), 0))
}

// Summarize rolls up the final state of a run.
func (r *Run) Summarize(st State) Summary {
	sum := Summary{
		Mode:             r.cfg.Mode,
		AtRisk:           []AtRisk{},
		SuggestedHistory: make(map[string]string, len(st.History)),
	}
	left := 0.0
	for _, ch := range r.chapters {
		rem := st.Remaining[ch.ID]
		left += rem
		// First AtRiskLimit in input order, not the most severe.
		if rem > remainingEpsilon && len(sum.AtRisk) < AtRiskLimit {
			sum.AtRisk = append(sum.AtRisk, AtRisk{
				ChapterID:      ch.ID,
				Subject:        ch.Subject,
				RemainingHours: round(rem, 2),
			})
		}
	}
	for k, v := range st.History {
		sum.SuggestedHistory[k] = v
	}

	sum.TotalRemainingHours = round(left, 2)
	sum.PlannedHours = round(st.Planned, 2)
	sum.Coverage = 1
	if r.total > 0 {
		sum.Coverage = round(clamp(st.Planned/r.total, 0, 1), 3)
	}
	return sum
}
