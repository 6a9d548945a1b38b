package schedule

import (
	"fmt"
	"sort"

	"github.com/abhisek/studyplan/internal/caldate"
)

// Interval is a half-open [Start, End) span of a day.
type Interval struct {
	Start caldate.Clock
	End   caldate.Clock
}

// Minutes returns the interval length.
func (iv Interval) Minutes() int { return int(iv.End - iv.Start) }

// TimeSlot is a study-sized piece of free time produced by BuildSlots.
type TimeSlot struct {
	Start caldate.Clock
	End   caldate.Clock
	// Mini marks a trailing remainder shorter than a full slot.
	Mini bool
}

// Minutes returns the slot length.
func (ts TimeSlot) Minutes() int { return int(ts.End - ts.Start) }

// MergeIntervals returns the union of the given intervals as a sorted list
// of disjoint intervals. Overlapping and touching intervals are joined and
// empty ones dropped. The input slice is not modified.
func MergeIntervals(in []Interval) []Interval {
	ivs := make([]Interval, 0, len(in))
	for _, iv := range in {
		if iv.End > iv.Start {
			ivs = append(ivs, iv)
		}
	}
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})

	merged := []Interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// BuildSlots turns one day's working window minus its blockers into an
// ordered list of slots. Each free interval yields as many full slots as fit
// and, when the remainder is at least miniMinutes, one trailing mini slot.
// Shorter remainders are dropped.
//
// Blockers for other days, or with unparseable fields, are ignored. An
// unparseable or empty working window returns a *ConfigError.
func BuildSlots(day caldate.Date, blockers []Blocker, dayStart, dayEnd string, slotMinutes, miniMinutes int) ([]TimeSlot, error) {
	window, err := parseWindow(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if slotMinutes <= 0 {
		return nil, &ConfigError{Field: "slot_minutes", Err: fmt.Errorf("must be positive, got %d", slotMinutes)}
	}

	blocked := make([]Interval, 0, len(blockers))
	for _, b := range blockers {
		iv, ok := blockerOn(day, b)
		if !ok {
			continue
		}
		if iv.Start < window.Start {
			iv.Start = window.Start
		}
		if iv.End > window.End {
			iv.End = window.End
		}
		if iv.End > iv.Start {
			blocked = append(blocked, iv)
		}
	}

	var slots []TimeSlot
	for _, free := range complement(window, MergeIntervals(blocked)) {
		cursor := free.Start
		for n := free.Minutes() / slotMinutes; n > 0; n-- {
			end := cursor + caldate.Clock(slotMinutes)
			slots = append(slots, TimeSlot{Start: cursor, End: end})
			cursor = end
		}
		rem := int(free.End - cursor)
		if rem > 0 && rem >= miniMinutes {
			slots = append(slots, TimeSlot{Start: cursor, End: free.End, Mini: true})
		}
	}
	return slots, nil
}

func parseWindow(dayStart, dayEnd string) (Interval, error) {
	start, err := caldate.ParseClock(dayStart)
	if err != nil {
		return Interval{}, &ConfigError{Field: "day_start", Err: err}
	}
	end, err := caldate.ParseClock(dayEnd)
	if err != nil {
		return Interval{}, &ConfigError{Field: "day_end", Err: err}
	}
	if end <= start {
		return Interval{}, &ConfigError{
			Field: "day window",
			Err:   fmt.Errorf("day_end %s is not after day_start %s", end, start),
		}
	}
	return Interval{Start: start, End: end}, nil
}

func blockerOn(day caldate.Date, b Blocker) (Interval, bool) {
	d, ok := caldate.ParseOK(b.Date)
	if !ok || d != day {
		return Interval{}, false
	}
	start, err := caldate.ParseClock(b.Start)
	if err != nil {
		return Interval{}, false
	}
	end, err := caldate.ParseClock(b.End)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// complement returns the parts of window not covered by blocked, which must
// be sorted, disjoint and inside window.
func complement(window Interval, blocked []Interval) []Interval {
	var free []Interval
	cursor := window.Start
	for _, b := range blocked {
		if b.Start > cursor {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if cursor < window.End {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}
