package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyplan/internal/caldate"
	"github.com/abhisek/studyplan/internal/schedule"
)

func sampleResult(t *testing.T) *schedule.Result {
	t.Helper()
	d, err := caldate.Parse("2025-01-06")
	require.NoError(t, err)
	return &schedule.Result{
		Days: []schedule.Day{
			{
				Date:       d,
				TotalHours: 2.25,
				Advisories: []string{schedule.AdviceContextSwitching},
				Commentary: "Strong start.",
				Slots: []schedule.Slot{
					{Start: 9 * 60, End: 10 * 60, ChapterID: "alg-1", Subject: "math", Activity: schedule.ActivityStudy, Reason: "Exam 2025-01-10, weight 2; high priority"},
					{Start: 10 * 60, End: 11 * 60, Activity: schedule.ActivityBreak, Reason: "rest"},
					{Start: 11 * 60, End: 11*60 + 15, ChapterID: "mech-2", Subject: "physics", Activity: schedule.ActivityMiniReview, Cards: 14, Reason: "recall"},
				},
			},
			{
				Date:    d.AddDays(1),
				Warning: "No usable slots; work deferred to tomorrow.",
			},
		},
		Summary: schedule.Summary{
			Coverage:         0.5,
			PlannedHours:     1,
			Mode:             schedule.ModeAssisted,
			AtRisk:           []schedule.AtRisk{{ChapterID: "mech-2", Subject: "physics", RemainingHours: 3}},
			SuggestedHistory: map[string]string{"alg-1": "2025-01-06"},
		},
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	res := sampleResult(t)
	out, err := NewJSONExporter().Render(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"date": "2025-01-06"`)
	assert.Contains(t, string(out), `"start": "09:00"`)

	back, err := ParseJSON(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, res, back)
}

func TestParseJSON_RejectsUnknownFields(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`{"days":[],"summary":{},"extra":1}`))
	assert.Error(t, err)
	_, err = ParseJSON(strings.NewReader(`{"days":[{"date":"2025-13-40"}]}`))
	assert.Error(t, err)
}

func newTestICS() *ICSExporter {
	e := NewICSExporter()
	e.Rand = bytes.NewReader(bytes.Repeat([]byte{0xAB}, 64))
	e.Now = func() time.Time { return time.Date(2025, 1, 5, 18, 30, 0, 0, time.UTC) }
	return e
}

func TestICS_Events(t *testing.T) {
	out, err := newTestICS().Render(sampleResult(t))
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasPrefix(text, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n"))
	assert.True(t, strings.HasSuffix(text, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(text, "BEGIN:VEVENT"), "break slot must be skipped")

	unfolded := strings.ReplaceAll(text, "\r\n ", "")
	assert.Contains(t, unfolded, "UID:20250106-090000-abababab-abab-4bab-abab-abababababab@studyplan\r\n")
	assert.Contains(t, unfolded, "DTSTAMP:20250105T183000Z\r\n")
	assert.Contains(t, unfolded, "DTSTART:20250106T090000\r\nDTEND:20250106T100000\r\n")
	assert.Contains(t, unfolded, "SUMMARY:Study math (alg-1)\r\n")
	assert.Contains(t, unfolded, `DESCRIPTION:Exam 2025-01-10\, weight 2\; high priority`)
	assert.Contains(t, unfolded, "SUMMARY:Mini review physics (mech-2)\r\n")
}

func TestICS_SkipsSubjectlessSlots(t *testing.T) {
	res := sampleResult(t)
	res.Days[0].Slots = []schedule.Slot{{Start: 9 * 60, End: 10 * 60, Activity: schedule.ActivityBuffer, Reason: "Unscheduled"}}
	out, err := newTestICS().Render(res)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "BEGIN:VEVENT")
}

func TestICS_RandFailure(t *testing.T) {
	e := newTestICS()
	e.Rand = bytes.NewReader(nil)
	_, err := e.Render(sampleResult(t))
	assert.Error(t, err)
}

func TestICS_FoldsLongLines(t *testing.T) {
	res := sampleResult(t)
	res.Days[0].Slots[0].Reason = strings.Repeat("é", 100)
	out, err := newTestICS().Render(res)
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, "line %q", line)
	}
	unfolded := strings.ReplaceAll(string(out), "\r\n ", "")
	assert.Contains(t, unfolded, "DESCRIPTION:"+strings.Repeat("é", 100)+"\r\n")
}

func TestICS_FoldsInvalidUTF8(t *testing.T) {
	w := &icsWriter{}
	done := make(chan struct{})
	go func() {
		w.line("SUMMARY:" + strings.Repeat("\x80", 100))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("folding did not terminate")
	}

	out := strings.TrimSuffix(w.buf.String(), "\r\n")
	for _, line := range strings.Split(out, "\r\n") {
		assert.LessOrEqual(t, len(line), 75)
	}
	assert.Equal(t, "SUMMARY:"+strings.Repeat("\x80", 100), strings.ReplaceAll(out, "\r\n ", ""))

	res := sampleResult(t)
	res.Days[0].Slots[0].Reason = strings.Repeat("\xff", 200)
	_, err := newTestICS().Render(res)
	require.NoError(t, err)
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\\b\;c\,d\ne\nf`, escapeText("a\\b;c,d\r\ne\nf"))
}

func TestCSV(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleResult(t))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, slotHeaders, records[0])
	assert.Equal(t, []string{"2025-01-06", "09:00", "10:00", "study", "math", "alg-1", "", "Exam 2025-01-10, weight 2; high priority"}, records[1])
	assert.Equal(t, "break", records[2][3])
	assert.Equal(t, "14", records[3][6])
}

func TestCSV_RequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().RenderDataset(Dataset{})
	assert.Error(t, err)
}

func TestPDF(t *testing.T) {
	res := sampleResult(t)
	res.Days[0].Slots[0].Reason = strings.Repeat("a very long reason ", 20)
	out, err := NewPDFExporter("Finals plan").Render(res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestForFormat(t *testing.T) {
	for _, name := range Formats() {
		r, err := ForFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, "."+name, r.Extension())
		assert.NotEmpty(t, r.ContentType())
	}
	_, err := ForFormat("docx")
	assert.Error(t, err)

	r, err := ForFormat("ICS")
	require.NoError(t, err)
	assert.IsType(t, &ICSExporter{}, r)
}

func TestNilResult(t *testing.T) {
	for _, name := range Formats() {
		r, _ := ForFormat(name)
		_, err := r.Render(nil)
		assert.Error(t, err, name)
	}
}
