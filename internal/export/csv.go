package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/abhisek/studyplan/internal/schedule"
)

// CSVExporter writes one row per slot.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (e *CSVExporter) Extension() string   { return ".csv" }

// Render produces CSV bytes for res.
func (e *CSVExporter) Render(res *schedule.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("csv export: nil result")
	}
	return e.RenderDataset(slotDataset(res))
}

// RenderDataset writes an arbitrary dataset.
func (e *CSVExporter) RenderDataset(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, h := range data.Headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
