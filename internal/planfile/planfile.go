// Package planfile reads planner inputs and outcome reports from YAML or
// JSON documents and checks their structure. Numeric ranges are left to
// the planner, which coerces them.
package planfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/studyplan/internal/friction"
	"github.com/abhisek/studyplan/internal/schedule"
)

// Format is a document encoding.
type Format int

const (
	// FormatAuto sniffs the content: a leading '{' means JSON.
	FormatAuto Format = iota
	FormatYAML
	FormatJSON
)

// Outcomes is a report of how planned tasks actually went.
type Outcomes struct {
	ProfileID string             `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
	Outcomes  []friction.Outcome `json:"outcomes" yaml:"outcomes" validate:"required,min=1"`
	// History maps chapter ID to the date it was last studied.
	History map[string]string `json:"history,omitempty" yaml:"history,omitempty" validate:"omitempty,dive,keys,required,endkeys,datetime=2006-01-02"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists every structural problem found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid document: " + strings.Join(e.Problems, "; ")
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// ReadInput decodes and validates a planner input.
func ReadInput(r io.Reader, f Format) (*schedule.Input, error) {
	var in schedule.Input
	if err := decode(r, f, &in); err != nil {
		return nil, err
	}
	if err := check(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

// ReadOutcomes decodes and validates an outcome report.
func ReadOutcomes(r io.Reader, f Format) (*Outcomes, error) {
	var out Outcomes
	if err := decode(r, f, &out); err != nil {
		return nil, err
	}
	if err := check(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadInput reads a planner input file; "-" means stdin.
func LoadInput(path string) (*schedule.Input, error) {
	var in *schedule.Input
	err := withFile(path, func(r io.Reader) (err error) {
		in, err = ReadInput(r, FormatForPath(path))
		return err
	})
	return in, err
}

// LoadOutcomes reads an outcome report file; "-" means stdin.
func LoadOutcomes(path string) (*Outcomes, error) {
	var out *Outcomes
	err := withFile(path, func(r io.Reader) (err error) {
		out, err = ReadOutcomes(r, FormatForPath(path))
		return err
	})
	return out, err
}

func withFile(path string, fn func(io.Reader) error) error {
	if path == "-" {
		return fn(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func decode(r io.Reader, f Format, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if f == FormatAuto {
		f = FormatYAML
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			f = FormatJSON
		}
	}

	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode yaml: %w", err)
		}
	}
	return nil
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Problems = append(ve.Problems, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
	}
	return ve
}
