package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/abhisek/studyplan/internal/schedule"
)

// JSONExporter writes the result as indented JSON.
type JSONExporter struct {
	Indent string
}

// NewJSONExporter builds a JSON exporter with two-space indentation.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: "  "}
}

func (e *JSONExporter) ContentType() string { return "application/json" }
func (e *JSONExporter) Extension() string   { return ".json" }

// Render encodes res.
func (e *JSONExporter) Render(res *schedule.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("json export: nil result")
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", e.Indent)
	if err := enc.Encode(res); err != nil {
		return nil, fmt.Errorf("json export: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseJSON reads a result previously written by JSONExporter.
func ParseJSON(r io.Reader) (*schedule.Result, error) {
	var res schedule.Result
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("parse schedule json: %w", err)
	}
	return &res, nil
}
