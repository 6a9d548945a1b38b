// Package caldate provides the calendar primitives the scheduler works in:
// a whole-day Date counted from the Unix epoch and a minute-of-day Clock.
// Both are plain integers so they compare and subtract directly; they are
// only formatted at JSON/YAML boundaries.
package caldate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the textual form of a Date.
const Layout = "2006-01-02"

// Date is a calendar day expressed as days since 1970-01-01.
type Date int

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// Parse parses a YYYY-MM-DD string. Surrounding whitespace is ignored and a
// trailing time component (as in RFC 3339 timestamps) is tolerated.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(Layout) && (s[len(Layout)] == 'T' || s[len(Layout)] == ' ') {
		s = s[:len(Layout)]
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// ParseOK is Parse without the error detail.
func ParseOK(s string) (Date, bool) {
	d, err := Parse(s)
	return d, err == nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date { return d + Date(n) }

// DaysUntil returns other − d in days.
func (d Date) DaysUntil(other Date) int { return int(other - d) }

func (d Date) String() string { return d.Time().Format(Layout) }

// Compact renders the date as YYYYMMDD.
func (d Date) Compact() string { return d.Time().Format("20060102") }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Clock is a time of day in minutes after midnight.
type Clock int

// ParseClock parses HH:MM (24h). "24:00" is accepted as end of day.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("parse clock %q: missing ':'", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	// Accept HH:MM:SS and drop the seconds.
	if i := strings.IndexByte(mm, ':'); i >= 0 {
		mm = mm[:i]
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return Clock(h*60 + m), nil
}

// Minutes returns the clock as an int.
func (c Clock) Minutes() int { return int(c) }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60) }

// Compact renders the clock as HHMMSS.
func (c Clock) Compact() string { return fmt.Sprintf("%02d%02d00", int(c)/60, int(c)%60) }

func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
