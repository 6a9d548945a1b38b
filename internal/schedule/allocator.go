package schedule

import (
	"math"
	"sort"
)

const (
	// guaranteedCandidates is how many top candidates always receive at
	// least one slot of allocation.
	guaranteedCandidates = 5

	minCards = 6
	maxCards = 50
)

// candidate is a chapter's standing for a single day.
type candidate struct {
	chapter  Chapter
	exam     *DatedExam
	priority float64
	personal float64
	// remaining is the chapter's outstanding work in hours.
	remaining float64
	// allocation is the day's minute budget still unspent.
	allocation float64
	practice   bool
}

func (c *candidate) open() bool {
	return c.allocation > remainingEpsilon && c.remaining > remainingEpsilon
}

// sortCandidates orders by priority, highest first, then by chapter ID.
func sortCandidates(cands []*candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].priority != cands[j].priority {
			return cands[i].priority > cands[j].priority
		}
		return cands[i].chapter.ID < cands[j].chapter.ID
	})
}

// allocate sets each candidate's minute budget to its priority share of
// capMinutes, bounded by its remaining work and its per-chapter ceiling.
// The top candidates are then lifted to at least one slot so that a long
// tail of small shares cannot starve them. cands must already be sorted.
func allocate(cands []*candidate, capMinutes float64, slotMinutes int) {
	total := 0.0
	for _, c := range cands {
		total += c.priority
	}
	if total <= 0 {
		return
	}

	slot := float64(slotMinutes)
	for _, c := range cands {
		share := c.priority / total * capMinutes
		ceiling := math.Max(c.chapter.EstimatedHours*clamp(c.chapter.QuestionDensity, 0, 1)*60, slot)
		c.allocation = math.Min(share, math.Min(c.remaining*60, ceiling))
	}

	for i := 0; i < guaranteedCandidates && i < len(cands); i++ {
		c := cands[i]
		if c.remaining > remainingEpsilon && c.allocation < slot {
			c.allocation = slot
		}
	}
}

// pickNextCandidate chooses the candidate for the next main slot. Among
// candidates with allocation left it prefers, in order: a different chapter
// and subject than prev, a different chapter, then anything. Within each
// tier the highest priority wins. cands must already be sorted.
func pickNextCandidate(cands []*candidate, prev *candidate) *candidate {
	if prev != nil {
		for _, c := range cands {
			if c.open() && c.chapter.ID != prev.chapter.ID && c.chapter.Subject != prev.chapter.Subject {
				return c
			}
		}
		for _, c := range cands {
			if c.open() && c.chapter.ID != prev.chapter.ID {
				return c
			}
		}
	}
	for _, c := range cands {
		if c.open() {
			return c
		}
	}
	return nil
}

// ReviewCards returns how many flash cards a review of the given length
// should cover. Harder material gets fewer cards; short slots are scaled
// down. The result is always within [6,50].
func ReviewCards(personal float64, minReviews, durationMinutes, slotMinutes int) int {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	if minReviews <= 0 {
		minReviews = DefaultMinReviews
	}
	if math.IsNaN(personal) {
		personal = 1
	}
	scale := clamp(float64(durationMinutes)/float64(slotMinutes), 0.25, 1)
	n := (1 / math.Max(personal, 1e-6)) * float64(minReviews) * scale
	return int(clamp(math.Round(n), minCards, maxCards))
}
