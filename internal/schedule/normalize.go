package schedule

import (
	"math"
	"strings"

	"github.com/abhisek/studyplan/internal/friction"
)

// Defaults applied to zero or malformed config values.
const (
	DefaultDailyMaxHours   = 6.0
	DefaultMinReviews      = 10
	DefaultSlotMinutes     = 60
	DefaultMiniSlotMinutes = 15
	DefaultDayStart        = "09:00"
	DefaultDayEnd          = "21:00"
	DefaultFocusWeight     = 1.0
	DefaultHorizonDays     = 90

	DefaultPracticeProbability = 0.3
	DefaultPracticePriority    = 2.0
	DefaultPracticeHours       = 1.5
	DefaultPracticeThreshold   = 0.9
)

// DefaultConfig returns a Config with every option at its default.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeAssisted,
		DailyMaxHours:   DefaultDailyMaxHours,
		MinReviews:      DefaultMinReviews,
		SlotMinutes:     DefaultSlotMinutes,
		MiniSlotMinutes: DefaultMiniSlotMinutes,
		DayStart:        DefaultDayStart,
		DayEnd:          DefaultDayEnd,
		DateDampener:    DampenerLog,
		FocusWeight:     DefaultFocusWeight,
		PracticePaper: PracticePaperConfig{
			Probability:         DefaultPracticeProbability,
			Priority:            DefaultPracticePriority,
			Hours:               DefaultPracticeHours,
			CompletionThreshold: DefaultPracticeThreshold,
		},
	}
}

// normalized coerces malformed values to safe defaults. Day window strings
// are left alone: an invalid window surfaces as a per-day ConfigError.
func (c Config) normalized() Config {
	d := DefaultConfig()

	switch Mode(strings.ToLower(string(c.Mode))) {
	case ModeBase, ModeAssisted, ModePower:
		c.Mode = Mode(strings.ToLower(string(c.Mode)))
	default:
		c.Mode = d.Mode
	}
	switch Dampener(strings.ToLower(string(c.DateDampener))) {
	case DampenerImplicit, DampenerLog, DampenerFloor3:
		c.DateDampener = Dampener(strings.ToLower(string(c.DateDampener)))
	default:
		c.DateDampener = d.DateDampener
	}

	if !positive(c.DailyMaxHours) {
		c.DailyMaxHours = d.DailyMaxHours
	}
	c.DailyMaxHours = math.Min(c.DailyMaxHours, 24)
	if c.MinReviews <= 0 {
		c.MinReviews = d.MinReviews
	}
	if c.SlotMinutes <= 0 {
		c.SlotMinutes = d.SlotMinutes
	}
	if c.MiniSlotMinutes <= 0 {
		c.MiniSlotMinutes = d.MiniSlotMinutes
	}
	if c.MiniSlotMinutes > c.SlotMinutes {
		c.MiniSlotMinutes = c.SlotMinutes
	}
	if strings.TrimSpace(c.DayStart) == "" {
		c.DayStart = d.DayStart
	}
	if strings.TrimSpace(c.DayEnd) == "" {
		c.DayEnd = d.DayEnd
	}
	if !positive(c.FocusWeight) {
		c.FocusWeight = d.FocusWeight
	}

	pp := c.PracticePaper
	if math.IsNaN(pp.Probability) || pp.Probability <= 0 {
		pp.Probability = d.PracticePaper.Probability
	}
	pp.Probability = math.Min(pp.Probability, 1)
	if !positive(pp.Priority) {
		pp.Priority = d.PracticePaper.Priority
	}
	if !positive(pp.Hours) {
		pp.Hours = d.PracticePaper.Hours
	}
	if !positive(pp.CompletionThreshold) {
		pp.CompletionThreshold = d.PracticePaper.CompletionThreshold
	}
	c.PracticePaper = pp

	return c
}

// normalized coerces a chapter's numeric fields into range.
func (ch Chapter) normalized() Chapter {
	if !positive(ch.EstimatedHours) {
		ch.EstimatedHours = 0
	}
	ch.BaseDifficulty = friction.Clamp01(ch.BaseDifficulty)
	ch.QuestionDensity = friction.Clamp01(ch.QuestionDensity)
	// An absent weight decodes as zero; treat it like a malformed one.
	if !positive(ch.ExamWeight) {
		ch.ExamWeight = 1
	}
	return ch
}

func (e Exam) weight() float64 {
	if !positive(e.Weight) {
		return 1
	}
	return e.Weight
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
