package schedule

import (
	"math"

	"github.com/abhisek/studyplan/internal/caldate"
	"github.com/abhisek/studyplan/internal/friction"
)

// DatedExam is an exam whose date has been parsed.
type DatedExam struct {
	Exam
	Day caldate.Date
}

// ScoreInput is everything needed to score one chapter on one day.
type ScoreInput struct {
	Chapter Chapter
	// Exam is the nearest exam for the chapter's subject on or after Today,
	// or nil when none is scheduled.
	Exam        *DatedExam
	Today       caldate.Date
	Fallback    caldate.Date
	Remaining   float64
	Friction    friction.Profile
	LastStudied string
	Dampener    Dampener
	FocusWeight float64
}

// PersonalDifficulty blends a chapter's static difficulty with the learner's
// friction. The result is always within [0,1].
func PersonalDifficulty(base float64, f friction.Profile) float64 {
	return clamp(base+0.3*f.Overrun+0.4*f.QuizError+0.3*f.RevisionFreq, 0, 1)
}

// Score returns the chapter's priority for the day together with its
// personal difficulty.
func Score(in ScoreInput) (priority, personal float64) {
	ch := in.Chapter
	personal = PersonalDifficulty(ch.BaseDifficulty, in.Friction)

	deadline := in.Fallback
	examWeight := 1.0
	method := in.Dampener
	if in.Exam != nil {
		deadline = in.Exam.Day
		examWeight = in.Exam.weight()
	} else {
		method = DampenerImplicit
	}
	days := max(in.Today.DaysUntil(deadline), 0)

	focus := in.FocusWeight
	if !positive(focus) {
		focus = DefaultFocusWeight
	}
	priority = personal * ch.ExamWeight * examWeight / dampen(method, days) * focus

	switch {
	case days <= 3:
		priority *= 1.5
	case days <= 10 && in.Exam == nil:
		priority *= 1.2
	}

	completion := 1.0
	if ch.EstimatedHours > 0 {
		completion = clamp(1-in.Remaining/ch.EstimatedHours, 0, 1)
	}
	priority *= 0.5 + (1 - completion)
	priority *= 0.85 + 0.3*clamp(ch.QuestionDensity, 0, 1)

	if days > 3 && in.LastStudied != "" {
		if last, ok := caldate.ParseOK(in.LastStudied); ok {
			priority *= spacingFactor(last.DaysUntil(in.Today))
		}
	}
	return priority, personal
}

// dampen returns the denominator that shrinks priority as the deadline
// recedes.
func dampen(method Dampener, days int) float64 {
	d := float64(days)
	switch method {
	case DampenerFloor3:
		return math.Max(d, 3)
	case DampenerImplicit:
		if days < 14 {
			return math.Max(d*0.5, 0.5)
		}
	}
	return math.Log(d+1) + 1
}

// spacingFactor penalises chapters studied very recently. A study date
// after the current day is malformed history and gets no penalty.
func spacingFactor(daysSince int) float64 {
	switch {
	case daysSince < 0:
		return 1
	case daysSince == 0:
		return 0.7
	case daysSince == 1:
		return 0.85
	case daysSince == 2:
		return 0.95
	default:
		return 1
	}
}
