// Package planview prints a schedule.Result for a terminal.
package planview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

// Options controls rendering.
type Options struct {
	// Plain disables colours, for pipes and files.
	Plain bool
	// Width is the total width of the summary card. Zero means 72.
	Width int
	// MaxDays limits the printed days; 0 prints all.
	MaxDays int
	// SkipEmpty hides days without study work.
	SkipEmpty bool
	// ShowBreaks prints break slots.
	ShowBreaks bool
}

type view struct {
	opts Options
}

func (v view) style(s lipgloss.Style, text string) string {
	if v.opts.Plain {
		return text
	}
	return s.Render(text)
}

func newView(opts Options) view {
	if opts.Width <= 0 {
		opts.Width = 72
	}
	return view{opts: opts}
}

// Render returns the plan as text: one block per day, then a summary.
func Render(res *schedule.Result, opts Options) string {
	v := newView(opts)
	if res == nil {
		return v.style(theme.Hint, "No schedule.") + "\n"
	}

	var b strings.Builder
	shown, hidden := 0, 0
	for _, day := range res.Days {
		if opts.SkipEmpty && Empty(day) {
			continue
		}
		if opts.MaxDays > 0 && shown >= opts.MaxDays {
			hidden++
			continue
		}
		v.day(&b, day)
		b.WriteString("\n")
		shown++
	}
	if hidden > 0 {
		b.WriteString(v.style(theme.Hint, fmt.Sprintf("… %d more day(s) not shown", hidden)) + "\n\n")
	}
	b.WriteString(v.summary(res.Summary))
	b.WriteString("\n")
	return b.String()
}

// Empty reports whether a day has no planned hours and no warning.
func Empty(day schedule.Day) bool {
	return day.TotalHours == 0 && day.Warning == ""
}

// RenderDay returns the block for one day.
func RenderDay(day schedule.Day, opts Options) string {
	var b strings.Builder
	newView(opts).day(&b, day)
	return b.String()
}

// RenderSummary returns the summary card.
func RenderSummary(sum schedule.Summary, opts Options) string {
	return newView(opts).summary(sum)
}

// DayLine is a one-line digest of a day for lists: date, hours, the count
// of each activity, and a marker when the day carries a warning.
func DayLine(day schedule.Day, opts Options) string {
	v := newView(opts)
	counts := make(map[schedule.Activity]int)
	for _, s := range day.Slots {
		counts[s.Activity]++
	}
	var parts []string
	for _, a := range []schedule.Activity{
		schedule.ActivityStudy,
		schedule.ActivityReview,
		schedule.ActivityMiniReview,
		schedule.ActivityBuffer,
	} {
		if n := counts[a]; n > 0 {
			parts = append(parts, v.style(theme.ForActivity(a), fmt.Sprintf("%s %d", a, n)))
		}
	}

	line := fmt.Sprintf("%s %s", day.Date.Time().Format("Mon"), day.Date) +
		v.style(theme.Subtitle, fmt.Sprintf("  %5.2fh", day.TotalHours))
	if len(parts) > 0 {
		line += "  " + strings.Join(parts, "  ")
	}
	if day.Warning != "" {
		line += "  " + v.style(theme.Warning, "!")
	}
	return line
}

func (v view) day(b *strings.Builder, day schedule.Day) {
	head := fmt.Sprintf("%s %s", day.Date.Time().Format("Mon"), day.Date)
	b.WriteString(v.style(theme.Title, head))
	b.WriteString(v.style(theme.Subtitle, fmt.Sprintf("  %.2fh", day.TotalHours)))
	b.WriteString("\n")

	if day.Warning != "" {
		b.WriteString("  " + v.style(theme.Warning, "! "+day.Warning) + "\n")
	}
	for _, s := range day.Slots {
		if s.Activity == schedule.ActivityBreak && !v.opts.ShowBreaks {
			continue
		}
		b.WriteString("  " + v.slot(s) + "\n")
	}
	for _, a := range day.Advisories {
		b.WriteString("  " + v.style(theme.Advisory, "* "+a) + "\n")
	}
	if day.Commentary != "" {
		b.WriteString("  " + v.style(theme.Hint, day.Commentary) + "\n")
	}
}

func (v view) slot(s schedule.Slot) string {
	when := fmt.Sprintf("%s-%s", s.Start, s.End)
	label := fmt.Sprintf("%-11s", s.Activity)

	var what string
	switch {
	case s.Subject != "" && s.ChapterID != "":
		what = s.Subject + "/" + s.ChapterID
	case s.Subject != "":
		what = s.Subject
	}
	if s.Cards > 0 {
		what += fmt.Sprintf(" (%d cards)", s.Cards)
	}

	line := v.style(theme.Subtitle, when) + "  " + v.style(theme.ForActivity(s.Activity), label) + " " + v.style(theme.Body, what)
	if s.Reason != "" {
		line += v.style(theme.Hint, "  "+s.Reason)
	}
	return line
}

func (v view) summary(sum schedule.Summary) string {
	inner := v.opts.Width - 4
	var b strings.Builder
	b.WriteString(v.style(theme.Title, "Summary") + v.style(theme.Subtitle, "  mode "+string(sum.Mode)) + "\n")
	b.WriteString(v.progress("Coverage", sum.Coverage, inner) + "\n")
	b.WriteString(v.style(theme.Body, fmt.Sprintf("Planned %.2fh, %.2fh left unplanned", sum.PlannedHours, sum.TotalRemainingHours)))

	if len(sum.AtRisk) > 0 {
		b.WriteString("\n" + v.style(theme.Risk, fmt.Sprintf("At risk (%d):", len(sum.AtRisk))))
		for _, r := range sum.AtRisk {
			b.WriteString("\n" + v.style(theme.Risk, fmt.Sprintf("  %s/%s  %.2fh", r.Subject, r.ChapterID, r.RemainingHours)))
		}
	}

	if v.opts.Plain {
		return b.String() + "\n"
	}
	return theme.Card.Width(v.opts.Width).Render(b.String()) + "\n"
}

// progress draws a labelled bar that fits width cells.
func (v view) progress(label string, ratio float64, width int) string {
	prefix := label + "  "
	suffix := fmt.Sprintf("  %3d%%", int(ratio*100+0.5))
	barWidth := width - lipgloss.Width(prefix) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * ratio)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	var bar string
	if v.opts.Plain {
		bar = "[" + strings.Repeat("#", filled) + strings.Repeat(".", empty) + "]"
	} else {
		bar = theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
			theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
	}
	return v.style(theme.Body, prefix) + bar + v.style(theme.Subtitle, suffix)
}
