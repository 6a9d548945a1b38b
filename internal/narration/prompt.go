package narration

import (
	"fmt"
	"strings"

	"github.com/abhisek/studyplan/internal/schedule"
)

// dayPrompt renders one day, plus the run summary, as plain text.
func dayPrompt(day schedule.Day, sum schedule.Summary, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d of %d: %s (%s), %.2f planned hours, mode %s.\n",
		index+1, total, day.Date, day.Date.Time().Weekday(), day.TotalHours, sum.Mode)

	if len(day.Slots) == 0 {
		b.WriteString("No slots are scheduled.\n")
	}
	for _, s := range day.Slots {
		fmt.Fprintf(&b, "- %s-%s %s", s.Start, s.End, s.Activity)
		if s.Subject != "" {
			fmt.Fprintf(&b, " %s", s.Subject)
		}
		if s.ChapterID != "" {
			fmt.Fprintf(&b, "/%s", s.ChapterID)
		}
		if s.Cards > 0 {
			fmt.Fprintf(&b, " (%d cards)", s.Cards)
		}
		if s.Reason != "" {
			fmt.Fprintf(&b, ": %s", s.Reason)
		}
		b.WriteByte('\n')
	}
	for _, a := range day.Advisories {
		fmt.Fprintf(&b, "Advisory: %s\n", a)
	}
	if day.Warning != "" {
		fmt.Fprintf(&b, "Planner warning: %s\n", day.Warning)
	}
	fmt.Fprintf(&b, "Plan coverage %.0f%%, %d chapters at risk.\n", sum.Coverage*100, len(sum.AtRisk))
	return b.String()
}
