package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/abhisek/studyplan/internal/schedule"
)

// PDFExporter prints one table per day on A4 landscape pages.
type PDFExporter struct {
	Title string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(title string) *PDFExporter {
	return &PDFExporter{Title: title}
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }
func (e *PDFExporter) Extension() string   { return ".pdf" }

// column widths in mm; they add up to the 277mm printable width.
var pdfColumns = []struct {
	header string
	width  float64
}{
	{"Start", 16}, {"End", 16}, {"Activity", 26}, {"Subject", 35}, {"Chapter", 40}, {"Cards", 14}, {"Reason", 130},
}

// Render creates the document.
func (e *PDFExporter) Render(res *schedule.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("pdf export: nil result")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if e.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(e.Title), "", 1, "C", false, 0, "")
	}
	sum := res.Summary
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Mode %s, coverage %.1f%%, %.1f h planned, %.1f h remaining, %d chapters at risk",
		sum.Mode, sum.Coverage*100, sum.PlannedHours, sum.TotalRemainingHours, len(sum.AtRisk)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	for _, day := range res.Days {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s  %s  (%.2f h)", day.Date, day.Date.Time().Weekday(), day.TotalHours), "", 1, "", false, 0, "")

		pdf.SetFont("Arial", "I", 9)
		for _, note := range append(append([]string{}, day.Advisories...), day.Warning, day.Commentary) {
			if note != "" {
				pdf.MultiCell(0, 5, tr(note), "", "", false)
			}
		}
		if len(day.Slots) == 0 {
			pdf.Ln(2)
			continue
		}

		pdf.SetFont("Arial", "B", 9)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, c.header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
		for _, s := range day.Slots {
			cards := ""
			if s.Cards > 0 {
				cards = fmt.Sprint(s.Cards)
			}
			cells := []string{s.Start.String(), s.End.String(), string(s.Activity), s.Subject, s.ChapterID, cards, s.Reason}
			for i, c := range pdfColumns {
				pdf.CellFormat(c.width, 6, tr(fit(pdf, cells[i], c.width-2)), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(3)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fit truncates s with an ellipsis so it renders within width mm.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
