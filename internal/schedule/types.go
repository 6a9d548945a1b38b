package schedule

import (
	"github.com/abhisek/studyplan/internal/caldate"
	"github.com/abhisek/studyplan/internal/friction"
)

// Mode selects how much the planner fills in on the learner's behalf.
type Mode string

const (
	// ModeBase schedules study only; spare time is left as break/buffer.
	ModeBase Mode = "base"
	// ModeAssisted adds reviews and mini reviews in spare time.
	ModeAssisted Mode = "assisted"
	// ModePower behaves like assisted.
	ModePower Mode = "power"
)

// Dampener selects how deadline distance reduces priority.
type Dampener string

const (
	DampenerImplicit Dampener = "implicit"
	DampenerLog      Dampener = "log"
	DampenerFloor3   Dampener = "floor3"
)

// Activity is the kind of work a slot holds.
type Activity string

const (
	ActivityStudy      Activity = "study"
	ActivityReview     Activity = "review"
	ActivityMiniReview Activity = "mini_review"
	ActivityBreak      Activity = "break"
	ActivityBuffer     Activity = "buffer"
)

// Chapter is one syllabus unit. The planner never mutates it.
type Chapter struct {
	ID              string  `json:"id" yaml:"id" validate:"required"`
	Subject         string  `json:"subject" yaml:"subject" validate:"required"`
	EstimatedHours  float64 `json:"estimated_hours" yaml:"estimated_hours"`
	BaseDifficulty  float64 `json:"base_difficulty" yaml:"base_difficulty"`
	ExamWeight      float64 `json:"exam_weight" yaml:"exam_weight"`
	QuestionDensity float64 `json:"question_density" yaml:"question_density"`
	SourceURL       string  `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// Exam is a dated assessment for a subject.
type Exam struct {
	Subject string  `json:"subject" yaml:"subject" validate:"required"`
	Date    string  `json:"date" yaml:"date"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

// Blocker marks a window of one specific day as unavailable.
type Blocker struct {
	Date   string `json:"date" yaml:"date"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end" yaml:"end"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// PracticePaperConfig tunes the synthetic practice-paper candidates that are
// injected late in a plan.
type PracticePaperConfig struct {
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	// Probability of injecting a paper for a subject on a given day.
	Probability float64 `json:"probability,omitempty" yaml:"probability,omitempty"`
	// Priority is the fixed score given to an injected paper.
	Priority float64 `json:"priority,omitempty" yaml:"priority,omitempty"`
	// Hours is the effort of one paper.
	Hours float64 `json:"hours,omitempty" yaml:"hours,omitempty"`
	// CompletionThreshold is the overall completion ratio after which
	// papers may be injected.
	CompletionThreshold float64 `json:"completion_threshold,omitempty" yaml:"completion_threshold,omitempty"`
}

// Config holds the planner options for one run.
type Config struct {
	Mode                 Mode                `json:"mode" yaml:"mode"`
	DailyMaxHours        float64             `json:"daily_max_hours" yaml:"daily_max_hours"`
	MinReviews           int                 `json:"min_reviews" yaml:"min_reviews"`
	SlotMinutes          int                 `json:"slot_minutes" yaml:"slot_minutes"`
	MiniSlotMinutes      int                 `json:"mini_slot_minutes" yaml:"mini_slot_minutes"`
	DayStart             string              `json:"day_start" yaml:"day_start"`
	DayEnd               string              `json:"day_end" yaml:"day_end"`
	TargetCompletionDate string              `json:"target_completion_date,omitempty" yaml:"target_completion_date,omitempty"`
	DateDampener         Dampener            `json:"date_dampener" yaml:"date_dampener"`
	FocusWeight          float64             `json:"focus_weight" yaml:"focus_weight"`
	Today                string              `json:"today,omitempty" yaml:"today,omitempty"`
	History              map[string]string   `json:"history,omitempty" yaml:"history,omitempty"`
	PracticePaper        PracticePaperConfig `json:"practice_paper,omitempty" yaml:"practice_paper,omitempty"`
}

// Input is everything one planning run consumes.
type Input struct {
	Chapters []Chapter        `json:"chapters" yaml:"chapters" validate:"dive"`
	Exams    []Exam           `json:"exams" yaml:"exams" validate:"dive"`
	Friction friction.Profile `json:"friction" yaml:"friction"`
	Blockers []Blocker        `json:"blockers" yaml:"blockers"`
	Config   Config           `json:"config" yaml:"config"`
}

// Slot is one time-boxed activity within a day.
type Slot struct {
	Start     caldate.Clock `json:"start"`
	End       caldate.Clock `json:"end"`
	ChapterID string        `json:"chapter_id,omitempty"`
	Subject   string        `json:"subject,omitempty"`
	Activity  Activity      `json:"activity"`
	Cards     int           `json:"cards,omitempty"`
	Reason    string        `json:"reason"`
	Completed bool          `json:"completed"`
}

// Minutes returns the slot duration.
func (s Slot) Minutes() int { return int(s.End - s.Start) }

// Day is the plan for one calendar day.
type Day struct {
	Date       caldate.Date `json:"date"`
	TotalHours float64      `json:"total_hours"`
	Slots      []Slot       `json:"slots"`
	Advisories []string     `json:"advisories,omitempty"`
	Warning    string       `json:"warning,omitempty"`
	Commentary string       `json:"commentary,omitempty"`
}

// AtRisk is a chapter the plan could not finish before the horizon.
type AtRisk struct {
	ChapterID      string  `json:"chapter_id"`
	Subject        string  `json:"subject"`
	RemainingHours float64 `json:"remaining_hours"`
}

// Summary is the run-level rollup.
type Summary struct {
	Coverage            float64           `json:"coverage"`
	PlannedHours        float64           `json:"planned_hours"`
	TotalRemainingHours float64           `json:"total_remaining_hours"`
	AtRisk              []AtRisk          `json:"at_risk"`
	Mode                Mode              `json:"mode"`
	SuggestedHistory    map[string]string `json:"suggested_history"`
}

// Result is the output of one planning run.
type Result struct {
	Days    []Day   `json:"days"`
	Summary Summary `json:"summary"`
}
