// Package friction tracks how a learner deviates from plan. The three
// scalars feed the scheduler's personal difficulty and are the only state
// carried from one planning run to the next.
package friction

import "math"

const (
	// OverrunFactor is the ratio actual/predicted above which a task counts
	// as an overrun (and predicted/actual for an underrun).
	OverrunFactor = 1.2
	// UnderrunFactor is the ratio actual/predicted below which a task
	// counts as an underrun.
	UnderrunFactor = 0.8
	// MinGapHours is the absolute gap a task must exceed to count at all.
	MinGapHours = 0.25
)

// Profile holds the learner's behavioural friction. Every field is in [0,1].
type Profile struct {
	// Overrun is the average time-overrun rate.
	Overrun float64 `json:"overrun" yaml:"overrun"`
	// QuizError is the smoothed quiz error rate.
	QuizError float64 `json:"quiz_error" yaml:"quiz_error"`
	// RevisionFreq is how readily the learner revisits material.
	RevisionFreq float64 `json:"revision_freq" yaml:"revision_freq"`
}

// Outcome is one observed task result reported by the caller.
type Outcome struct {
	PredictedHours *float64 `json:"predicted_hours,omitempty" yaml:"predicted_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty" yaml:"actual_hours,omitempty"`
	Postponed      bool     `json:"postponed,omitempty" yaml:"postponed,omitempty"`

	// QuizErrorRate is an observed quiz error sample in [0,1], if the task
	// had a quiz.
	QuizErrorRate *float64 `json:"quiz_error_rate,omitempty" yaml:"quiz_error_rate,omitempty"`

	RevisedEarly      bool `json:"revised_early,omitempty" yaml:"revised_early,omitempty"`
	RevisionCompleted bool `json:"revision_completed,omitempty" yaml:"revision_completed,omitempty"`
	RevisionMissed    bool `json:"revision_missed,omitempty" yaml:"revision_missed,omitempty"`
}

// Normalized returns p with every field clamped into [0,1]. NaN becomes 0.
func (p Profile) Normalized() Profile {
	return Profile{
		Overrun:      Clamp01(p.Overrun),
		QuizError:    Clamp01(p.QuizError),
		RevisionFreq: Clamp01(p.RevisionFreq),
	}
}

// Update folds a batch of outcomes into p and returns the new profile.
// An empty batch returns p unchanged.
func Update(p Profile, outcomes []Outcome) Profile {
	if len(outcomes) == 0 {
		return p
	}
	p = p.Normalized()
	n := float64(len(outcomes))

	var over, under, postponed int
	var early, completed, missed int
	var samples []float64

	for _, o := range outcomes {
		if o.PredictedHours != nil && o.ActualHours != nil {
			pred, act := *o.PredictedHours, *o.ActualHours
			if finite(pred) && finite(act) {
				gap := math.Abs(act - pred)
				switch {
				case act > pred*OverrunFactor && gap > MinGapHours:
					over++
				case act < pred*UnderrunFactor && gap > MinGapHours:
					under++
				}
			}
		}
		if o.Postponed {
			postponed++
		}
		if o.QuizErrorRate != nil && finite(*o.QuizErrorRate) {
			samples = append(samples, Clamp01(*o.QuizErrorRate))
		}
		if o.RevisedEarly {
			early++
		}
		if o.RevisionCompleted {
			completed++
		}
		if o.RevisionMissed {
			missed++
		}
	}

	p.Overrun = Clamp01(p.Overrun +
		0.08*float64(over)/n -
		0.05*float64(under)/n +
		0.05*float64(postponed)/n)

	if len(samples) > 0 {
		p.QuizError = Clamp01(0.8*p.QuizError + 0.2*mean(samples))
	}

	p.RevisionFreq = Clamp01(p.RevisionFreq +
		0.06*float64(early)/n +
		0.03*float64(completed)/n -
		0.02*float64(missed)/n)

	return p
}

// Clamp01 clamps v into [0,1]; NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
