package export

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studyplan/internal/schedule"
)

const icsLineLimit = 75

// ICSExporter writes an RFC 5545 calendar with one VEVENT per exportable
// slot. Times are floating local times.
type ICSExporter struct {
	// Rand feeds the random part of each UID.
	Rand io.Reader
	// Now stamps DTSTAMP.
	Now    func() time.Time
	ProdID string
}

// NewICSExporter builds an exporter backed by crypto/rand and the wall clock.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{Rand: rand.Reader, Now: time.Now, ProdID: "-//studyplan//study schedule//EN"}
}

func (e *ICSExporter) ContentType() string { return "text/calendar; charset=utf-8" }
func (e *ICSExporter) Extension() string   { return ".ics" }

// Render produces the calendar text.
func (e *ICSExporter) Render(res *schedule.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("ics export: nil result")
	}
	w := &icsWriter{}
	w.line("BEGIN:VCALENDAR")
	w.line("VERSION:2.0")
	w.line("PRODID:" + e.ProdID)
	w.line("CALSCALE:GREGORIAN")
	w.line("METHOD:PUBLISH")

	stamp := e.Now().UTC().Format("20060102T150405Z")
	for _, day := range res.Days {
		for _, s := range day.Slots {
			if !exportable(s) {
				continue
			}
			id, err := uuid.NewRandomFromReader(e.Rand)
			if err != nil {
				return nil, fmt.Errorf("ics export: uid: %w", err)
			}
			w.line("BEGIN:VEVENT")
			w.line(fmt.Sprintf("UID:%s-%s-%s@studyplan", day.Date.Compact(), s.Start.Compact(), id))
			w.line("DTSTAMP:" + stamp)
			w.line(fmt.Sprintf("DTSTART:%sT%s", day.Date.Compact(), s.Start.Compact()))
			w.line(fmt.Sprintf("DTEND:%sT%s", day.Date.Compact(), s.End.Compact()))
			w.line("SUMMARY:" + escapeText(title(s)))
			if s.Reason != "" {
				w.line("DESCRIPTION:" + escapeText(s.Reason))
			}
			w.line("CATEGORIES:" + escapeText(string(s.Activity)))
			w.line("END:VEVENT")
		}
	}
	w.line("END:VCALENDAR")
	return w.buf.Bytes(), nil
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)

// escapeText applies RFC 5545 TEXT escaping.
func escapeText(s string) string { return textEscaper.Replace(s) }

type icsWriter struct {
	buf bytes.Buffer
}

// line writes a content line folded at 75 octets without splitting a
// UTF-8 sequence, terminated by CRLF.
func (w *icsWriter) line(s string) {
	limit := icsLineLimit
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8Start(s[cut]) {
			cut--
		}
		if cut == 0 {
			// No rune boundary in range, as in invalid UTF-8.
			cut = limit
		}
		w.buf.WriteString(s[:cut])
		w.buf.WriteString("\r\n ")
		s = s[cut:]
		// Continuation lines carry a leading space.
		limit = icsLineLimit - 1
	}
	w.buf.WriteString(s)
	w.buf.WriteString("\r\n")
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }
