// Package export renders a schedule.Result into the formats the CLI and
// HTTP API hand out: JSON, iCalendar, CSV and PDF.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/studyplan/internal/schedule"
)

// Renderer turns a result into a document.
type Renderer interface {
	Render(res *schedule.Result) ([]byte, error)
	ContentType() string
	Extension() string
}

var formats = map[string]func() Renderer{
	"json": func() Renderer { return NewJSONExporter() },
	"ics":  func() Renderer { return NewICSExporter() },
	"csv":  func() Renderer { return NewCSVExporter() },
	"pdf":  func() Renderer { return NewPDFExporter("Study plan") },
}

// Formats lists the supported format names.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for k := range formats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ForFormat returns a renderer with default settings for name.
func ForFormat(name string) (Renderer, error) {
	mk, ok := formats[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
	return mk(), nil
}

// exportable reports whether a slot belongs in calendar-like exports:
// breaks and slots without a subject are skipped.
func exportable(s schedule.Slot) bool {
	return s.Activity != schedule.ActivityBreak && s.Subject != ""
}

// title is the human label of a slot, e.g. "Study math (alg-1)".
func title(s schedule.Slot) string {
	var b strings.Builder
	switch s.Activity {
	case schedule.ActivityMiniReview:
		b.WriteString("Mini review")
	default:
		a := string(s.Activity)
		if a == "" {
			a = "slot"
		}
		b.WriteString(strings.ToUpper(a[:1]) + a[1:])
	}
	if s.Subject != "" {
		b.WriteString(" " + s.Subject)
	}
	if s.ChapterID != "" {
		b.WriteString(" (" + s.ChapterID + ")")
	}
	return b.String()
}
